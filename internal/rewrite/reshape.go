package rewrite

import (
	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/internal/shape"
	"github.com/vvka-141/seedshift/internal/statement"
)

// reshape applies ops to one block and returns the new text of every line
// it touches. Nothing is returned unless the whole block succeeds.
func reshape(b *statement.Block, tokens [][]lexer.Token, ops []shape.Op) (map[int]string, shape.Stats, error) {
	sh, err := statement.ExtractShape(b, tokens)
	if err != nil {
		return nil, shape.Stats{}, err
	}

	rows := make([][]string, len(sh.Rows))
	for i, row := range sh.Rows {
		rows[i] = row.Items
	}
	res, err := shape.Apply(sh.Header.Items, rows, ops)
	if err != nil {
		return nil, shape.Stats{}, &statement.BlockError{Table: b.Table, Line: b.HeaderLine + 1, Err: err}
	}
	if !res.Changed() {
		return nil, res.Stats, nil
	}

	byLine := map[int][]statement.Edit{
		sh.Header.Line: {{Tuple: sh.Header, Items: res.Columns}},
	}
	for i, row := range sh.Rows {
		byLine[row.Line] = append(byLine[row.Line], statement.Edit{Tuple: row, Items: res.Rows[i]})
	}

	out := make(map[int]string, len(byLine))
	for line, edits := range byLine {
		out[line] = statement.RenderLine(tokens[line], edits)
	}
	return out, res.Stats, nil
}
