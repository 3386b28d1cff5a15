package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/seedshift/internal/tui"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// ForcedApprover implements the Approver interface for non-interactive
// approval. It lists the files about to be written and approves, used when
// --force is given or no terminal is attached.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) seedshift.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr}
}

// RequestApproval approves unless ctx is already done. File names are
// printed only in verbose mode.
func (a *ForcedApprover) RequestApproval(ctx context.Context, paths []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.verbose {
		for _, p := range paths {
			fmt.Fprintf(a.output, "  %s %s\n", tui.SymbolBullet, p)
		}
	}
	fmt.Fprintln(a.output, tui.SuccessStyle.Render(fmt.Sprintf("%s Writing %d file(s)", tui.SymbolCheck, len(paths))))
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ seedshift.Approver = (*ForcedApprover)(nil)
