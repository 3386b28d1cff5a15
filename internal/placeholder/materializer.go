package placeholder

import (
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/vvka-141/seedshift/internal/lexer"
)

// Generator produces the opaque value for a placeholder body.
type Generator func(placeholder string) string

// RandomGenerator returns a fresh random UUID for every call.
func RandomGenerator(string) string {
	return uuid.NewString()
}

// namespaceSeed scopes seeded values to this tool.
var namespaceSeed = uuid.NewSHA1(uuid.NameSpaceURL, []byte("seedshift/placeholder/v1"))

// SeededGenerator derives a UUID v5 from seed and the placeholder body, so
// the same seed reproduces the same values.
func SeededGenerator(seed string) Generator {
	ns := uuid.NewSHA1(namespaceSeed, []byte(seed))
	return func(placeholder string) string {
		return uuid.NewSHA1(ns, []byte(placeholder)).String()
	}
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithGenerator replaces the random value source.
func WithGenerator(gen Generator) Option {
	return func(m *Materializer) {
		if gen != nil {
			m.gen = gen
		}
	}
}

// Materializer finds and replaces placeholders in tokenized lines.
type Materializer struct {
	names  map[string]struct{}
	tagged *regexp.Regexp
	gen    Generator
}

// New compiles g. An invalid grammar wraps seedshift.ErrInvalidConfig.
func New(g Grammar, opts ...Option) (*Materializer, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	m := &Materializer{
		names:  make(map[string]struct{}, len(g.Names)),
		tagged: g.compile(),
		gen:    RandomGenerator,
	}
	for _, n := range g.Names {
		m.names[n] = struct{}{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match returns the placeholder body of a literal token, if it is one.
func (m *Materializer) Match(tok lexer.Token) (string, bool) {
	if tok.Kind != lexer.Literal {
		return "", false
	}
	text := tok.Text
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return "", false
	}
	body := text[1 : len(text)-1]
	if _, ok := m.names[body]; ok {
		return body, true
	}
	if m.tagged != nil && m.tagged.MatchString(body) {
		return body, true
	}
	return "", false
}

// Collect gathers the distinct placeholders in lines and assigns each a
// value.
func (m *Materializer) Collect(lines [][]lexer.Token) *Map {
	seen := make(map[string]struct{})
	for _, tokens := range lines {
		for _, tok := range tokens {
			if body, ok := m.Match(tok); ok {
				seen[body] = struct{}{}
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	// Longest first; ties broken lexically so generation order is stable.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pm := &Map{keys: keys, values: make(map[string]string, len(keys))}
	for _, k := range keys {
		pm.values[k] = m.gen(k)
	}
	return pm
}

// Stats counts what Materialize replaced.
type Stats struct {
	Placeholders int // distinct placeholders
	Occurrences  int // literal tokens rewritten
}

// Materialize replaces every placeholder literal in lines with its quoted
// value. The returned tokens carry recomputed offsets; lines is not
// modified.
func (m *Materializer) Materialize(lines [][]lexer.Token) ([][]lexer.Token, *Map, Stats) {
	pm := m.Collect(lines)
	stats := Stats{Placeholders: pm.Len()}

	out := make([][]lexer.Token, len(lines))
	for n, tokens := range lines {
		next := make([]lexer.Token, len(tokens))
		copy(next, tokens)
		changed := false
		for i, tok := range tokens {
			body, ok := m.Match(tok)
			if !ok {
				continue
			}
			next[i].Text = "'" + pm.values[body] + "'"
			stats.Occurrences++
			changed = true
		}
		if changed {
			pos := 0
			for i := range next {
				next[i].Start = pos
				pos += len(next[i].Text)
				next[i].End = pos
			}
		}
		out[n] = next
	}
	return out, pm, stats
}
