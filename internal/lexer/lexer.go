package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// State carries an open literal or block comment from one line to the next.
// The zero value means "outside any literal".
type State struct {
	closer  string // delimiter that ends the open literal; "" outside literals
	opener  string // delimiter as written, for diagnostics
	escapes bool   // backslash escapes are active (E'...' strings)
	comment bool   // inside a /* */ comment
}

// InLiteral reports whether the line ended inside a quoted literal.
func (s State) InLiteral() bool { return s.closer != "" }

// InComment reports whether the line ended inside a block comment.
func (s State) InComment() bool { return s.comment }

// Tokenize splits a single line. A literal left open at the end of the line
// yields a non-nil UnterminatedError alongside the (still lossless) tokens.
func Tokenize(line string) ([]Token, *UnterminatedError) {
	tokens, st := TokenizeFrom(line, State{})
	if st.InLiteral() {
		return tokens, &UnterminatedError{Quote: st.opener}
	}
	return tokens, nil
}

// TokenizeAll tokenizes consecutive lines, threading open-literal state so
// the continuation of a multi-line string stays a Literal. The returned
// warnings are *UnterminatedError values, one per line that ended inside a
// literal.
func TokenizeAll(lines []string) ([][]Token, []error) {
	out := make([][]Token, len(lines))
	var warnings []error
	st := State{}
	for n, line := range lines {
		tokens, next := TokenizeFrom(line, st)
		if next.InLiteral() {
			warnings = append(warnings, &UnterminatedError{Line: n + 1, Quote: next.opener})
		}
		out[n] = tokens
		st = next
	}
	return out, warnings
}

// tokenizeContinuation emits the tail of a literal or comment opened on an
// earlier line and returns the offset where normal scanning resumes.
func (s State) tokenizeContinuation(lx *lineLexer) (int, State) {
	line := lx.line
	if s.comment {
		if idx := strings.Index(line, "*/"); idx >= 0 {
			lx.emit(Comment, 0, idx+2)
			return idx + 2, State{}
		}
		lx.emit(Comment, 0, len(line))
		return len(line), s
	}

	end, closed := scanClosing(line, 0, s.closer, s.escapes)
	lx.emit(Literal, 0, end)
	if !closed {
		return len(line), s
	}
	return end, State{}
}

// TokenizeFrom splits line starting in state st and returns the tokens and
// the state at the end of the line.
func TokenizeFrom(line string, st State) ([]Token, State) {
	lx := &lineLexer{line: line}
	i := 0
	if st.InLiteral() || st.InComment() {
		i, st = st.tokenizeContinuation(lx)
	}

	for i < len(line) {
		c := line[i]
		var next byte
		if i+1 < len(line) {
			next = line[i+1]
		}

		switch {
		case isSpace(c):
			j := i + 1
			for j < len(line) && isSpace(line[j]) {
				j++
			}
			lx.emit(Whitespace, i, j)
			i = j

		case c == '-' && next == '-':
			lx.emit(Comment, i, len(line))
			i = len(line)

		case c == '/' && next == '*':
			if idx := strings.Index(line[i+2:], "*/"); idx >= 0 {
				end := i + 2 + idx + 2
				lx.emit(Comment, i, end)
				i = end
			} else {
				lx.emit(Comment, i, len(line))
				st.comment = true
				i = len(line)
			}

		case (c == 'E' || c == 'e') && next == '\'':
			end, closed := scanClosing(line, i+2, "'", true)
			lx.emit(Literal, i, end)
			if !closed {
				st = State{closer: "'", opener: line[i : i+2], escapes: true}
			}
			i = end

		case c == '\'' || c == '"':
			q := string(c)
			end, closed := scanClosing(line, i+1, q, false)
			lx.emit(Literal, i, end)
			if !closed {
				st = State{closer: q, opener: q}
			}
			i = end

		case c == '$':
			tag := extractDollarTag(line, i)
			if tag == "" {
				lx.emit(Punctuation, i, i+1)
				i++
				break
			}
			end, closed := scanClosing(line, i+len(tag), tag, false)
			lx.emit(Literal, i, end)
			if !closed {
				st = State{closer: tag, opener: tag}
			}
			i = end

		case isDigit(c):
			j := i + 1
			for j < len(line) && (isDigit(line[j]) || line[j] == '.') {
				j++
			}
			lx.emit(Number, i, j)
			i = j

		default:
			r, size := utf8.DecodeRuneInString(line[i:])
			if isWordStart(r) {
				i = lx.word(i)
				continue
			}
			lx.emit(Punctuation, i, i+size)
			i += size
		}
	}

	return lx.tokens, st
}

type lineLexer struct {
	line   string
	tokens []Token
}

func (lx *lineLexer) emit(kind Kind, start, end int) {
	if end <= start {
		return
	}
	lx.tokens = append(lx.tokens, Token{
		Kind:  kind,
		Text:  lx.line[start:end],
		Start: start,
		End:   end,
	})
}

// word consumes an identifier, keyword, dotted name or call starting at i
// and returns the offset after it.
func (lx *lineLexer) word(i int) int {
	line := lx.line
	j := scanWord(line, i)
	for j+1 < len(line) && line[j] == '.' {
		r, _ := utf8.DecodeRuneInString(line[j+1:])
		if !isWordStart(r) {
			break
		}
		j = scanWord(line, j+1)
	}
	name := line[i:j]

	if j < len(line) && line[j] == '(' {
		k := j + 1
		for k < len(line) && isSpace(line[k]) {
			k++
		}
		if k < len(line) && line[k] == ')' {
			lx.emit(Call, i, k+1)
			return k + 1
		}
	}

	kind := Identifier
	if !strings.Contains(name, ".") && IsKeyword(name) {
		kind = Keyword
	}
	lx.emit(kind, i, j)
	return j
}

func scanWord(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isWordStart(r) && !unicode.IsDigit(r) && r != '$' {
			break
		}
		i += size
	}
	return i
}

// scanClosing finds the end of a literal whose body starts at from.
// Single-character quotes treat a doubled quote as an escaped quote.
// Returns the offset just past the closing delimiter, or len(s) and false.
func scanClosing(s string, from int, closer string, escapes bool) (int, bool) {
	if len(closer) > 1 {
		if idx := strings.Index(s[from:], closer); idx >= 0 {
			return from + idx + len(closer), true
		}
		return len(s), false
	}

	q := closer[0]
	j := from
	for j < len(s) {
		c := s[j]
		if escapes && c == '\\' {
			j += 2
			continue
		}
		if c == q {
			if j+1 < len(s) && s[j+1] == q {
				j += 2
				continue
			}
			return j + 1, true
		}
		j++
	}
	return len(s), false
}

// extractDollarTag extracts a dollar-quote tag (e.g., "$$" or "$tag$") starting at position i.
// Returns empty string if not a valid dollar-quote tag.
func extractDollarTag(s string, i int) string {
	if i >= len(s) || s[i] != '$' {
		return ""
	}

	j := i + 1
	for j < len(s) {
		ch := s[j]
		if ch == '$' {
			return s[i : j+1]
		}
		if j == i+1 {
			if !isTagStart(ch) {
				return ""
			}
		} else if !isTagStart(ch) && !isDigit(ch) {
			return ""
		}
		j++
	}

	return ""
}

func isTagStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
