package statement

import (
	"strings"

	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Block is one row-producing statement: its header line, the lines after
// it up to and including the line ending with the terminator.
type Block struct {
	Table      string // target table as written, with identifier quotes removed
	HeaderLine int    // 0-based line index of the header
	ValueLines []int  // 0-based indexes of the lines after the header
	OpenEnded  bool   // true while no terminator has been seen

	// HasColumnList reports whether the header line carries an explicit
	// column list. Blocks without one never take column operations.
	HasColumnList bool

	// Deleted marks the block for removal from the output.
	Deleted bool
}

// StartLine returns the first line index of the block.
func (b *Block) StartLine() int { return b.HeaderLine }

// EndLine returns the last line index of the block.
func (b *Block) EndLine() int {
	if len(b.ValueLines) == 0 {
		return b.HeaderLine
	}
	return b.ValueLines[len(b.ValueLines)-1]
}

type scanState int

const (
	stateIdle scanState = iota
	stateInHeader
	stateInValues
)

// Scan groups tokenized lines into statement blocks. Lines outside blocks
// are not represented. A document that ends while a block is still open
// returns the blocks found so far together with an ErrUnclosedBlock error.
func Scan(lines [][]lexer.Token) ([]*Block, error) {
	var blocks []*Block
	var cur *Block
	state := stateIdle

	for i, tokens := range lines {
		switch state {
		case stateIdle:
			h, ok := parseHeader(tokens)
			if !ok {
				continue
			}
			cur = &Block{
				Table:         h.table,
				HeaderLine:    i,
				OpenEnded:     true,
				HasColumnList: h.open >= 0,
			}
			if endsStatement(tokens) {
				cur.OpenEnded = false
				blocks = append(blocks, cur)
				cur = nil
				continue
			}
			state = stateInHeader

		case stateInHeader, stateInValues:
			cur.ValueLines = append(cur.ValueLines, i)
			if state == stateInHeader && isBlank(tokens) {
				continue
			}
			state = stateInValues
			if endsStatement(tokens) {
				cur.OpenEnded = false
				blocks = append(blocks, cur)
				cur = nil
				state = stateIdle
			}
		}
	}

	if cur != nil {
		blocks = append(blocks, cur)
		return blocks, unclosed(cur)
	}
	return blocks, nil
}

// HeaderTable returns the target table of a header line, if the line
// starts a row-producing statement.
func HeaderTable(tokens []lexer.Token) (string, bool) {
	h, ok := parseHeader(tokens)
	return h.table, ok
}

type header struct {
	table    string
	tableTok int
	open     int // token index of "(" opening the column list, -1 if none
	close    int // token index of the matching ")"
}

// parseHeader recognises "INSERT INTO [ONLY] table [(cols)]" and
// "REPLACE INTO table [(cols)]" at the start of a line.
func parseHeader(tokens []lexer.Token) (header, bool) {
	h := header{open: -1, close: -1}

	i := lexer.FirstSignificant(tokens, 0)
	if i < 0 || !(tokens[i].IsKeyword("INSERT") || tokens[i].IsKeyword("REPLACE")) {
		return h, false
	}
	i = lexer.FirstSignificant(tokens, i+1)
	if i < 0 || !tokens[i].IsKeyword("INTO") {
		return h, false
	}
	i = lexer.FirstSignificant(tokens, i+1)
	if i >= 0 && tokens[i].IsKeyword("ONLY") {
		i = lexer.FirstSignificant(tokens, i+1)
	}
	if i < 0 {
		return h, false
	}

	tok := tokens[i]
	switch {
	case tok.Kind == lexer.Identifier:
	case tok.Kind == lexer.Literal && strings.HasPrefix(tok.Text, `"`):
	default:
		return h, false
	}
	h.tableTok = i
	h.table = tableName(tokens, i)

	// a quoted schema may be followed by ".name"
	j := i + 1
	for j+1 < len(tokens) && tokens[j].IsPunct(".") {
		j += 2
	}

	k := lexer.FirstSignificant(tokens, j)
	if k >= 0 && tokens[k].IsPunct("(") {
		if end := matchParen(tokens, k); end >= 0 {
			h.open, h.close = k, end
		}
	}
	return h, true
}

// tableName joins a possibly quoted, possibly qualified name starting at
// token i and removes identifier quotes.
func tableName(tokens []lexer.Token, i int) string {
	var b strings.Builder
	b.WriteString(tokens[i].Text)
	for j := i + 1; j+1 < len(tokens) && tokens[j].IsPunct("."); j += 2 {
		b.WriteString(".")
		b.WriteString(tokens[j+1].Text)
	}
	return strings.ReplaceAll(b.String(), `"`, "")
}

// matchParen returns the index of the ")" closing the "(" at open, or -1
// when it is not closed on the same line.
func matchParen(tokens []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch {
		case tokens[i].IsPunct("("):
			depth++
		case tokens[i].IsPunct(")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// endsStatement reports whether the last significant token is the terminator.
func endsStatement(tokens []lexer.Token) bool {
	i := lexer.LastSignificant(tokens)
	return i >= 0 && tokens[i].IsPunct(seedshift.StatementTerminator)
}

func isBlank(tokens []lexer.Token) bool {
	for _, t := range tokens {
		if t.Kind != lexer.Whitespace {
			return false
		}
	}
	return true
}
