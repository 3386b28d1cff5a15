package rename

import (
	"strings"

	"github.com/vvka-141/seedshift/internal/lexer"
)

// Stats counts rewritten segments, in total and per rule pattern.
type Stats struct {
	Renamed int
	ByRule  map[string]int
}

func (s *Stats) add(rule string) {
	s.Renamed++
	if s.ByRule == nil {
		s.ByRule = make(map[string]int)
	}
	s.ByRule[rule]++
}

// Apply rewrites every matching identifier segment across lines and returns
// new token slices with offsets recomputed. The input is not modified.
func (e *Engine) Apply(lines [][]lexer.Token) ([][]lexer.Token, Stats) {
	return e.ApplyExcept(lines, nil)
}

// ApplyExcept is Apply with lines flagged in skip left as they are and not
// counted. Skipped lines still provide keyword context to the next line.
func (e *Engine) ApplyExcept(lines [][]lexer.Token, skip []bool) ([][]lexer.Token, Stats) {
	var stats Stats
	out := make([][]lexer.Token, len(lines))
	prev := ""

	for n, tokens := range lines {
		frozen := n < len(skip) && skip[n]
		changed := false
		next := make([]lexer.Token, len(tokens))
		copy(next, tokens)

		for i, tok := range tokens {
			if tok.IsTrivia() {
				continue
			}
			if tok.Kind == lexer.Identifier && !frozen {
				if text, hits := e.rewrite(tok.Text, prev, &stats); hits > 0 {
					next[i].Text = text
					changed = true
				}
			}
			prev = ""
			if tok.Kind == lexer.Keyword {
				prev = tok.Text
			}
		}

		if changed {
			reindex(next)
		}
		out[n] = next
	}
	return out, stats
}

func (e *Engine) rewrite(text, keyword string, stats *Stats) (string, int) {
	if strings.Contains(text, ".") {
		for _, r := range e.rules {
			if r.dotted && r.allows(keyword) && strings.EqualFold(r.Pattern, text) {
				stats.add(r.Pattern)
				return r.Replacement, 1
			}
		}
	}

	segments := strings.Split(text, ".")
	hits := 0
	for i, seg := range segments {
		for _, r := range e.rules {
			if !r.dotted && r.allows(keyword) && r.matches(seg) {
				segments[i] = r.Replacement
				stats.add(r.Pattern)
				hits++
				break
			}
		}
	}
	if hits == 0 {
		return text, 0
	}
	return strings.Join(segments, "."), hits
}

func reindex(tokens []lexer.Token) {
	pos := 0
	for i := range tokens {
		tokens[i].Start = pos
		pos += len(tokens[i].Text)
		tokens[i].End = pos
	}
}
