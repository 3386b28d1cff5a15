// Package filter decides which statement blocks are dropped from output.
package filter

import (
	"strings"

	"github.com/vvka-141/seedshift/internal/statement"
)

// DenyList matches table names case-insensitively. A schema-qualified
// block table matches an entry naming either the full path or its last
// segment; a qualified entry only matches that exact path.
type DenyList struct {
	tables map[string]struct{}
}

// NewDenyList builds a deny-list from table names. Blank names are ignored.
func NewDenyList(tables []string) *DenyList {
	d := &DenyList{tables: make(map[string]struct{}, len(tables))}
	for _, t := range tables {
		if t = normalize(t); t != "" {
			d.tables[t] = struct{}{}
		}
	}
	return d
}

// Len returns the number of deny-listed tables.
func (d *DenyList) Len() int {
	if d == nil {
		return 0
	}
	return len(d.tables)
}

// Denies reports whether blocks targeting table are dropped.
func (d *DenyList) Denies(table string) bool {
	if d.Len() == 0 {
		return false
	}
	name := normalize(table)
	if _, ok := d.tables[name]; ok {
		return true
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		_, ok := d.tables[name[i+1:]]
		return ok
	}
	return false
}

// Mark flags every denied block as deleted and returns how many it marked.
// A block is denied by its table as written or, when renamed is not nil, by
// the name renamed returns for it, so an entry naming a rename target drops
// the block on the first run instead of the second.
func (d *DenyList) Mark(blocks []*statement.Block, renamed func(*statement.Block) string) int {
	n := 0
	for _, b := range blocks {
		if b.Deleted {
			continue
		}
		if d.Denies(b.Table) || (renamed != nil && d.Denies(renamed(b))) {
			b.Deleted = true
			n++
		}
	}
	return n
}

func normalize(name string) string {
	parts := strings.Split(strings.TrimSpace(name), ".")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Trim(p, `"`))
	}
	return strings.Join(parts, ".")
}
