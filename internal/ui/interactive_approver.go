package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/seedshift/internal/tui"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// InteractiveApprover implements the Approver interface for console-based
// confirmation. On a terminal it shows the review screen; otherwise it
// prints the file list and reads a yes/no answer from input.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer

	// review runs the full-screen review; nil uses the line prompt.
	review func(ctx context.Context, paths []string, in io.Reader, out io.Writer) (bool, error)
}

// NewInteractiveApprover creates a new InteractiveApprover on stdin/stderr.
func NewInteractiveApprover(verbose bool) seedshift.Approver {
	a := &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
	mode, reason := tui.DetectMode()
	switch {
	case mode == tui.ModeInteractive:
		a.review = tui.RunReview
	case verbose:
		fmt.Fprintf(a.output, "Review screen off (%s); using the line prompt\n", reason)
	}
	return a
}

// RequestApproval asks the user whether paths may be overwritten.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, paths []string) (bool, error) {
	if a.review != nil {
		ok, err := a.review(ctx, paths, a.input, a.output)
		if err != nil {
			return false, err
		}
		a.printOutcome(ok, len(paths))
		return ok, nil
	}

	fmt.Fprintf(a.output, "\n%s\n", tui.WarningStyle.Render(fmt.Sprintf("WARNING: %d file(s) will be rewritten in place:", len(paths))))
	for _, p := range paths {
		fmt.Fprintf(a.output, "  %s %s\n", tui.SymbolBullet, p)
	}
	fmt.Fprint(a.output, "\nType 'yes' to write the files: ")

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || input == "") {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		ok := strings.EqualFold(input, "yes") || strings.EqualFold(input, "y")
		if !ok && input != "" {
			fmt.Fprintf(a.output, "Input '%s' is not 'yes'. ", input)
		}
		a.printOutcome(ok, len(paths))
		return ok, nil
	}
}

func (a *InteractiveApprover) printOutcome(ok bool, n int) {
	if ok {
		fmt.Fprintln(a.output, tui.SuccessStyle.Render(fmt.Sprintf("%s Confirmed. Writing %d file(s)...", tui.SymbolCheck, n)))
		return
	}
	fmt.Fprintln(a.output, tui.ErrorStyle.Render(tui.SymbolCross+" Operation cancelled. No files were written."))
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ seedshift.Approver = (*InteractiveApprover)(nil)
