package rewrite

import (
	"sort"

	"github.com/vvka-141/seedshift/internal/shape"
)

// TableStats counts column changes for one table.
type TableStats struct {
	Blocks   int `json:"blocks"`
	Inserted int `json:"inserted"`
	Removed  int `json:"removed"`
	Renamed  int `json:"renamed"`
}

// SkippedBlock is a block whose column operations were not applied.
type SkippedBlock struct {
	Table string `json:"table"`
	Line  int    `json:"line"`
	Err   error  `json:"-"`
}

// Report summarizes what a rewrite changed.
type Report struct {
	Renamed                int                    `json:"renamed"`
	RenamedByRule          map[string]int         `json:"renamed_by_rule,omitempty"`
	Tables                 map[string]*TableStats `json:"tables,omitempty"`
	BlocksDeleted          int                    `json:"blocks_deleted"`
	Placeholders           int                    `json:"placeholders"`
	PlaceholderOccurrences int                    `json:"placeholder_occurrences"`
	Skipped                []SkippedBlock         `json:"-"`
	Warnings               []error                `json:"-"`
}

func (r *Report) table(name string) *TableStats {
	if r.Tables == nil {
		r.Tables = make(map[string]*TableStats)
	}
	ts, ok := r.Tables[name]
	if !ok {
		ts = &TableStats{}
		r.Tables[name] = ts
	}
	return ts
}

func (r *Report) recordShape(table string, s shape.Stats) {
	ts := r.table(table)
	ts.Blocks++
	ts.Inserted += s.Inserted
	ts.Removed += s.Removed
	ts.Renamed += s.Renamed
}

// Merge adds other's counts into r.
func (r *Report) Merge(other Report) {
	r.Renamed += other.Renamed
	for rule, n := range other.RenamedByRule {
		if r.RenamedByRule == nil {
			r.RenamedByRule = make(map[string]int)
		}
		r.RenamedByRule[rule] += n
	}
	for name, ts := range other.Tables {
		dst := r.table(name)
		dst.Blocks += ts.Blocks
		dst.Inserted += ts.Inserted
		dst.Removed += ts.Removed
		dst.Renamed += ts.Renamed
	}
	r.BlocksDeleted += other.BlocksDeleted
	r.Placeholders += other.Placeholders
	r.PlaceholderOccurrences += other.PlaceholderOccurrences
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// TableNames returns the tables with column changes, sorted.
func (r *Report) TableNames() []string {
	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColumnsChanged sums inserted, removed and renamed columns over all tables.
func (r *Report) ColumnsChanged() int {
	n := 0
	for _, ts := range r.Tables {
		n += ts.Inserted + ts.Removed + ts.Renamed
	}
	return n
}
