package statement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Tuple is a comma-separated list confined to one line: a header column
// list, a VALUES row or a SELECT projection. Items are the trimmed texts of
// the positional entries.
type Tuple struct {
	Line  int      // 0-based line index
	Open  int      // index of the first content token
	Close int      // index one past the last content token
	Items []string // positional entries, trimmed
	Sep   string   // separator as written between the first two items
	Lead  string   // whitespace between the opening delimiter and the first item
	Trail string   // whitespace between the last item and the closing delimiter
}

// Edit replaces the content of one tuple with Items.
type Edit struct {
	Tuple Tuple
	Items []string
}

// RenderLine returns the text of a line with the content of every edited
// tuple replaced, keeping each token outside them byte-for-byte. All edits
// must refer to tuples of that line.
func RenderLine(tokens []lexer.Token, edits []Edit) string {
	sort.Slice(edits, func(i, j int) bool { return edits[i].Tuple.Open < edits[j].Tuple.Open })

	var b strings.Builder
	pos := 0
	for _, e := range edits {
		b.WriteString(lexer.Join(tokens[pos:e.Tuple.Open]))
		if len(e.Items) > 0 {
			b.WriteString(e.Tuple.Lead)
			b.WriteString(strings.Join(e.Items, e.Tuple.Sep))
			b.WriteString(e.Tuple.Trail)
		}
		pos = e.Tuple.Close
	}
	b.WriteString(lexer.Join(tokens[pos:]))
	return b.String()
}

// Shape is the positional view of one block: its column list and every row.
type Shape struct {
	Header Tuple
	Rows   []Tuple
}

// ExtractShape resolves the header column list and the value rows of a
// block. It fails with ErrHeaderWithoutColumnList when the header has no
// column list, and with ErrRowColumnCountMismatch when a row cannot be
// delimited on a single line.
func ExtractShape(b *Block, lines [][]lexer.Token) (*Shape, error) {
	headerTokens := lines[b.HeaderLine]
	h, ok := parseHeader(headerTokens)
	if !ok || !b.HasColumnList || h.open < 0 {
		return nil, &BlockError{
			Table:  b.Table,
			Line:   b.HeaderLine + 1,
			Reason: "header line has no explicit column list",
			Err:    seedshift.ErrHeaderWithoutColumnList,
		}
	}

	shape := &Shape{Header: splitTuple(b.HeaderLine, headerTokens, h.open+1, h.close)}

	c := &cursor{lines: lines, line: b.HeaderLine, idx: h.close + 1, last: b.EndLine()}
	pos, ok := c.next()
	if !ok {
		return shape, nil
	}

	tok := c.token(pos)
	c.line, c.idx = pos.line, pos.idx+1
	switch {
	case tok.IsKeyword("VALUES"):
		rows, err := valueRows(b, c)
		if err != nil {
			return nil, err
		}
		shape.Rows = rows
	case tok.IsKeyword("SELECT"):
		row, err := projectionRow(b, lines, pos)
		if err != nil {
			return nil, err
		}
		shape.Rows = []Tuple{row}
	}
	return shape, nil
}

// valueRows reads "(...), (...), ..." after VALUES. Anything other than a
// comma after a row (ON CONFLICT, RETURNING, the terminator) ends the list.
func valueRows(b *Block, c *cursor) ([]Tuple, error) {
	var rows []Tuple
	for {
		pos, ok := c.next()
		if !ok || !c.token(pos).IsPunct("(") {
			return rows, nil
		}
		tokens := c.lines[pos.line]
		end := matchParen(tokens, pos.idx)
		if end < 0 {
			return nil, rowLayoutError(b, pos.line, "value row is not closed on the line where it starts")
		}
		rows = append(rows, splitTuple(pos.line, tokens, pos.idx+1, end))
		c.line, c.idx = pos.line, end+1

		pos, ok = c.next()
		if !ok || !c.token(pos).IsPunct(",") {
			return rows, nil
		}
		c.line, c.idx = pos.line, pos.idx+1
	}
}

// projectionRow reads the select list after SELECT up to FROM, the
// terminator or the end of the line.
func projectionRow(b *Block, lines [][]lexer.Token, pos position) (Tuple, error) {
	tokens := lines[pos.line]
	start := pos.idx + 1
	if i := lexer.FirstSignificant(tokens, start); i >= 0 && tokens[i].IsKeyword("DISTINCT") {
		start = i + 1
	}

	end := len(tokens)
	depth := 0
	for i := start; i < len(tokens); i++ {
		t := tokens[i]
		if t.IsPunct("(") {
			depth++
		} else if t.IsPunct(")") {
			depth--
		}
		if depth == 0 && (t.IsKeyword("FROM") || t.IsPunct(seedshift.StatementTerminator)) {
			end = i
			break
		}
	}

	if end == len(tokens) {
		for end > start && tokens[end-1].IsTrivia() {
			end--
		}
		if last := lexer.LastSignificant(tokens[start:end]); last < 0 || tokens[start+last].IsPunct(",") {
			return Tuple{}, rowLayoutError(b, pos.line, "select list continues on the next line")
		}
	}
	return splitTuple(pos.line, tokens, start, end), nil
}

func rowLayoutError(b *Block, line int, reason string) error {
	return &BlockError{
		Table:  b.Table,
		Line:   line + 1,
		Reason: reason,
		Err:    seedshift.ErrRowColumnCountMismatch,
	}
}

// splitTuple splits tokens[open:close] at top-level commas.
func splitTuple(line int, tokens []lexer.Token, open, close int) Tuple {
	t := Tuple{Line: line, Open: open, Close: close, Sep: ", "}
	content := tokens[open:close]

	first := lexer.FirstSignificant(content, 0)
	if first < 0 {
		return t
	}
	last := lexer.LastSignificant(content)
	t.Lead = lexer.Join(content[:first])
	t.Trail = lexer.Join(content[last+1:])

	depth := 0
	segStart := first
	sepFound := false
	for i := first; i <= last; i++ {
		tok := content[i]
		switch {
		case tok.IsPunct("("):
			depth++
		case tok.IsPunct(")"):
			depth--
		case tok.IsPunct(",") && depth == 0:
			t.Items = append(t.Items, trimmed(content[segStart:i]))
			if !sepFound {
				t.Sep = separator(content, i)
				sepFound = true
			}
			segStart = i + 1
		}
	}
	t.Items = append(t.Items, trimmed(content[segStart:last+1]))
	return t
}

// separator returns the whitespace-comma-whitespace run around the comma
// at index i.
func separator(tokens []lexer.Token, i int) string {
	start := i
	for start > 0 && tokens[start-1].Kind == lexer.Whitespace {
		start--
	}
	end := i + 1
	for end < len(tokens) && tokens[end].Kind == lexer.Whitespace {
		end++
	}
	return lexer.Join(tokens[start:end])
}

func trimmed(tokens []lexer.Token) string {
	first := lexer.FirstSignificant(tokens, 0)
	if first < 0 {
		return ""
	}
	return lexer.Join(tokens[first : lexer.LastSignificant(tokens)+1])
}

type position struct {
	line, idx int
}

// cursor walks significant tokens across the lines of one block.
type cursor struct {
	lines     [][]lexer.Token
	line, idx int
	last      int // last line index the cursor may visit
}

func (c *cursor) next() (position, bool) {
	line, idx := c.line, c.idx
	for line <= c.last {
		if i := lexer.FirstSignificant(c.lines[line], idx); i >= 0 {
			return position{line, i}, true
		}
		line++
		idx = 0
	}
	return position{}, false
}

func (c *cursor) token(p position) lexer.Token {
	return c.lines[p.line][p.idx]
}

// String formats the tuple items for diagnostics.
func (t Tuple) String() string {
	return fmt.Sprintf("line %d: (%s)", t.Line+1, strings.Join(t.Items, t.Sep))
}
