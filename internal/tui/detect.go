package tui

import (
	"os"

	"golang.org/x/term"
)

// EnvNonInteractive set to 1 forces the line prompt.
const EnvNonInteractive = "SEEDSHIFT_NON_INTERACTIVE"

// Mode selects how approval is asked for.
type Mode int

const (
	// ModeNonInteractive uses the line prompt, which also reads piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive shows the review screen.
	ModeInteractive
)

// Console is what mode detection looks at. The review screen reads keys
// from Input and draws on Output, so both must be terminals.
type Console struct {
	Getenv     func(string) string
	IsTerminal func(fd int) bool
	Input      int
	Output     int
}

// ProcessConsole describes stdin and stderr of the running process. The
// review draws on stderr so stdout can carry a report.
func ProcessConsole() Console {
	return Console{
		Getenv:     os.Getenv,
		IsTerminal: term.IsTerminal,
		Input:      int(os.Stdin.Fd()),
		Output:     int(os.Stderr.Fd()),
	}
}

// Detect returns the mode and, for ModeNonInteractive, the reason.
func (c Console) Detect() (Mode, string) {
	switch {
	case c.Getenv(EnvNonInteractive) == "1":
		return ModeNonInteractive, EnvNonInteractive + "=1"
	case c.Getenv("CI") != "":
		return ModeNonInteractive, "CI is set"
	case c.Getenv("NO_COLOR") != "":
		return ModeNonInteractive, "NO_COLOR is set"
	case !c.IsTerminal(c.Input):
		return ModeNonInteractive, "input is not a terminal"
	case !c.IsTerminal(c.Output):
		return ModeNonInteractive, "output is not a terminal"
	}
	return ModeInteractive, ""
}

// DetectMode inspects the process console.
func DetectMode() (Mode, string) {
	return ProcessConsole().Detect()
}
