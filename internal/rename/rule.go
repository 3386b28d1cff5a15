package rename

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Rule declares one identifier rename.
type Rule struct {
	Pattern     string   // name segment, or a dotted path matched whole; case-insensitive
	Replacement string   // text written in place of the match
	Contexts    []string // keywords that must precede the match; empty means anywhere
	Priority    int      // higher runs first
	Regex       bool     // Pattern is a regular expression anchored to the whole segment
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.Pattern, r.Replacement)
}

type compiled struct {
	Rule
	order    int
	dotted   bool // pattern is a qualified name matched against the whole token
	re       *regexp.Regexp
	contexts map[string]struct{}
}

func (c *compiled) matches(segment string) bool {
	if c.re != nil {
		return c.re.MatchString(segment)
	}
	return strings.EqualFold(c.Pattern, segment)
}

func (c *compiled) allows(keyword string) bool {
	if len(c.contexts) == 0 {
		return true
	}
	if keyword == "" {
		return false
	}
	_, ok := c.contexts[strings.ToUpper(keyword)]
	return ok
}

// AmbiguityError names two equal-priority rules that can claim the same
// identifier in the same context.
type AmbiguityError struct {
	First, Second Rule
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: rules %q and %q share priority %d and overlapping contexts; give one a higher priority",
		seedshift.ErrAmbiguousRenameOrder, e.First, e.Second, e.First.Priority)
}

func (e *AmbiguityError) Unwrap() error {
	return seedshift.ErrAmbiguousRenameOrder
}

// Engine applies a compiled, ordered rule set.
type Engine struct {
	rules []*compiled
}

// Compile validates rules and fixes their application order. Invalid rules
// wrap ErrInvalidConfig; unordered overlaps wrap ErrAmbiguousRenameOrder.
func Compile(rules []Rule) (*Engine, error) {
	var errs []error
	out := make([]*compiled, 0, len(rules))

	for i, r := range rules {
		c := &compiled{Rule: r, order: i}
		switch {
		case strings.TrimSpace(r.Pattern) == "":
			errs = append(errs, fmt.Errorf("%w: rename rule %d has an empty pattern", seedshift.ErrInvalidConfig, i+1))
			continue
		case strings.TrimSpace(r.Replacement) == "":
			errs = append(errs, fmt.Errorf("%w: rename rule %q has an empty replacement", seedshift.ErrInvalidConfig, r.Pattern))
			continue
		}
		c.dotted = !r.Regex && strings.Contains(r.Pattern, ".")
		if r.Regex {
			re, err := regexp.Compile(`(?i)^(?:` + r.Pattern + `)$`)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: rename rule %q: %v", seedshift.ErrInvalidConfig, r.Pattern, err))
				continue
			}
			c.re = re
		}
		if len(r.Contexts) > 0 {
			c.contexts = make(map[string]struct{}, len(r.Contexts))
			for _, kw := range r.Contexts {
				c.contexts[strings.ToUpper(strings.TrimSpace(kw))] = struct{}{}
			}
		}
		out = append(out, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out) && out[j].Priority == out[i].Priority; j++ {
			if overlaps(out[i], out[j]) {
				errs = append(errs, &AmbiguityError{First: out[i].Rule, Second: out[j].Rule})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Engine{rules: out}, nil
}

// Rules returns the rules in application order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, c := range e.rules {
		out[i] = c.Rule
	}
	return out
}

// overlaps reports whether a and b could compete for one segment. Besides
// identical matches this covers a root word and a compound built on it
// (family vs family_members): not a conflict for whole-segment matching, but
// a sign the author relied on declaration order.
func overlaps(a, b *compiled) bool {
	if !contextsIntersect(a, b) {
		return false
	}
	switch {
	case a.re == nil && b.re == nil:
		return sameOrCompound(a.Pattern, b.Pattern)
	case a.re != nil && b.re == nil:
		return a.re.MatchString(b.Pattern)
	case a.re == nil && b.re != nil:
		return b.re.MatchString(a.Pattern)
	default:
		return a.Pattern == b.Pattern
	}
}

func sameOrCompound(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	return strings.HasPrefix(b, a+"_") || strings.HasSuffix(b, "_"+a)
}

func contextsIntersect(a, b *compiled) bool {
	if len(a.contexts) == 0 || len(b.contexts) == 0 {
		return true
	}
	for kw := range a.contexts {
		if _, ok := b.contexts[kw]; ok {
			return true
		}
	}
	return false
}
