package statement

import (
	"fmt"

	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// BlockError attributes a failure to one statement block.
type BlockError struct {
	Table  string
	Line   int    // 1-based line number of the offending line
	Reason string // human-readable detail
	Err    error  // sentinel from pkg/seedshift
}

func (e *BlockError) Error() string {
	msg := fmt.Sprintf("%s (table %s, line %d)", e.Err, e.Table, e.Line)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

func unclosed(b *Block) error {
	return &BlockError{
		Table:  b.Table,
		Line:   b.HeaderLine + 1,
		Reason: "no terminating " + seedshift.StatementTerminator + " before end of document",
		Err:    seedshift.ErrUnclosedBlock,
	}
}
