package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Grammar declares which literal bodies are placeholders.
type Grammar struct {
	Tags  []string // 'tag-<digits>' is a placeholder for every tag
	Names []string // exact bodies that are placeholders on their own
}

// DefaultGrammar returns the tags and names used by the stock fixture set.
func DefaultGrammar() Grammar {
	return Grammar{
		Tags: []string{
			"user", "hourse", "fm", "chat", "cp", "msg", "loc", "geo", "alert",
			"file", "event", "ea", "task", "note", "notif", "album", "item",
		},
		Names: []string{"demo-family", "fm-admin-1", "admin-user"},
	}
}

// IsZero reports whether the grammar matches nothing.
func (g Grammar) IsZero() bool {
	return len(g.Tags) == 0 && len(g.Names) == 0
}

var tagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func (g Grammar) validate() error {
	var errs []error
	for _, tag := range g.Tags {
		if !tagPattern.MatchString(tag) {
			errs = append(errs, fmt.Errorf("%w: placeholder tag %q must be a plain word", seedshift.ErrInvalidConfig, tag))
		}
	}
	for _, name := range g.Names {
		if strings.TrimSpace(name) == "" || strings.Contains(name, "'") {
			errs = append(errs, fmt.Errorf("%w: placeholder name %q must be non-empty and contain no quotes", seedshift.ErrInvalidConfig, name))
		}
	}
	return errors.Join(errs...)
}

func (g Grammar) compile() *regexp.Regexp {
	if len(g.Tags) == 0 {
		return nil
	}
	quoted := make([]string, len(g.Tags))
	for i, tag := range g.Tags {
		quoted[i] = regexp.QuoteMeta(tag)
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)-[0-9]+$`)
}
