package lexer

import (
	"fmt"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	Whitespace Kind = iota
	Identifier
	Keyword
	Literal
	Call
	Punctuation
	Number
	Comment
)

// String returns a human-readable string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case Literal:
		return "Literal"
	case Call:
		return "Call"
	case Punctuation:
		return "Punctuation"
	case Number:
		return "Number"
	case Comment:
		return "Comment"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one span of a line. Offsets are byte offsets relative to the line.
type Token struct {
	Kind  Kind
	Text  string
	Start int // inclusive
	End   int // exclusive
}

// IsKeyword reports whether the token is the given keyword (case-insensitive).
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Text, kw)
}

// IsPunct reports whether the token is the given punctuation character.
func (t Token) IsPunct(p string) bool {
	return t.Kind == Punctuation && t.Text == p
}

// IsTrivia reports whether the token carries no syntax: whitespace or comment.
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// LastSignificant returns the index of the last non-trivia token, or -1.
func LastSignificant(tokens []Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if !tokens[i].IsTrivia() {
			return i
		}
	}
	return -1
}

// FirstSignificant returns the index of the first non-trivia token at or
// after from, or -1.
func FirstSignificant(tokens []Token, from int) int {
	for i := from; i < len(tokens); i++ {
		if !tokens[i].IsTrivia() {
			return i
		}
	}
	return -1
}

// keywords is the fixed, case-insensitive keyword set. Words commonly used
// as column names (key, type, name, value) are deliberately absent.
var keywords = map[string]struct{}{
	"ADD": {}, "ALTER": {}, "AND": {}, "AS": {}, "BY": {}, "CASCADE": {},
	"COLUMN": {}, "CONFLICT": {}, "CONSTRAINT": {}, "CREATE": {}, "CROSS": {},
	"DEFAULT": {}, "DELETE": {}, "DISTINCT": {}, "DO": {}, "DROP": {},
	"EXISTS": {}, "FALSE": {}, "FOREIGN": {}, "FROM": {}, "FULL": {},
	"GROUP": {}, "IF": {}, "IN": {}, "INDEX": {}, "INNER": {}, "INSERT": {},
	"INTO": {}, "IS": {}, "JOIN": {}, "LEFT": {}, "LIMIT": {}, "NOT": {},
	"NOTHING": {}, "NULL": {}, "ON": {}, "ONLY": {}, "OR": {}, "ORDER": {},
	"OUTER": {}, "PRIMARY": {}, "REFERENCES": {}, "RENAME": {}, "REPLACE": {},
	"RETURNING": {}, "RIGHT": {}, "SELECT": {}, "SET": {}, "TABLE": {},
	"TO": {}, "TRUE": {}, "TRUNCATE": {}, "UNIQUE": {}, "UPDATE": {},
	"USING": {}, "VALUES": {}, "WHERE": {}, "WITH": {},
}

// IsKeyword reports whether word is in the keyword set.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToUpper(word)]
	return ok
}
