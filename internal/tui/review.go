package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Review lists the files a run is about to overwrite and waits for the user
// to confirm or cancel.
type Review struct {
	paths     []string
	cursor    int
	offset    int
	height    int
	keyMap    KeyMap
	confirmed bool
	cancelled bool
}

const defaultReviewHeight = 15

// NewReview creates a review screen for paths.
func NewReview(paths []string) Review {
	return Review{
		paths:  paths,
		height: defaultReviewHeight,
		keyMap: DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (r Review) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (r Review) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, r.keyMap.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, r.keyMap.Down):
			if r.cursor < len(r.paths)-1 {
				r.cursor++
			}
		case key.Matches(msg, r.keyMap.Confirm):
			r.confirmed = true
			return r, tea.Quit
		case key.Matches(msg, r.keyMap.Cancel):
			r.cancelled = true
			return r, tea.Quit
		}
	case tea.WindowSizeMsg:
		// title, blank line, help
		if h := msg.Height - 4; h > 0 {
			r.height = h
		}
	}
	r.scroll()
	return r, nil
}

func (r *Review) scroll() {
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+r.height {
		r.offset = r.cursor - r.height + 1
	}
}

// View implements tea.Model.
func (r Review) View() string {
	if r.confirmed || r.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%d file(s) will be rewritten", len(r.paths))))
	b.WriteString("\n")

	end := min(r.offset+r.height, len(r.paths))
	for i := r.offset; i < end; i++ {
		if i == r.cursor {
			b.WriteString(SelectedStyle.Render(SymbolArrowRight + " " + r.paths[i]))
		} else {
			b.WriteString(UnselectedStyle.Render("  " + r.paths[i]))
		}
		b.WriteString("\n")
	}
	if end < len(r.paths) {
		b.WriteString(OverflowStyle.Render(fmt.Sprintf("  … %d more", len(r.paths)-end)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("↑/↓ scroll • y write files • n/q cancel"))
	return b.String()
}

// Confirmed returns true if the user accepted the rewrite.
func (r Review) Confirmed() bool {
	return r.confirmed
}

// Cancelled returns true if the user declined the rewrite.
func (r Review) Cancelled() bool {
	return r.cancelled
}

// RunReview shows the review screen on the terminal until the user decides.
func RunReview(ctx context.Context, paths []string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewReview(paths),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("review screen failed: %w", err)
	}
	r, ok := final.(Review)
	return ok && r.Confirmed(), nil
}
