package lexer

import (
	"fmt"

	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// UnterminatedError reports a line that ended inside a quoted literal.
// It is a warning: tokenization always succeeds.
type UnterminatedError struct {
	Line  int    // 1-based line number, 0 when tokenizing a lone line
	Quote string // opening delimiter: ', ", E' or a dollar tag
}

func (e *UnterminatedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: literal opened with %s is not closed on this line", e.Line, e.Quote)
	}
	return fmt.Sprintf("literal opened with %s is not closed on this line", e.Quote)
}

func (e *UnterminatedError) Unwrap() error {
	return seedshift.ErrUnterminatedLiteral
}
