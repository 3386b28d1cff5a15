package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, r Review, keys ...string) (Review, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var m tea.Model
		m, cmd = r.Update(msg)
		var ok bool
		r, ok = m.(Review)
		require.True(t, ok)
	}
	return r, cmd
}

func TestReview_Confirm(t *testing.T) {
	r, cmd := press(t, NewReview([]string{"seed/a.sql", "seed/b.sql"}), "y")

	assert.True(t, r.Confirmed())
	assert.False(t, r.Cancelled())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, r.View())
}

func TestReview_Cancel(t *testing.T) {
	for _, k := range []string{"n", "q", "esc"} {
		t.Run(k, func(t *testing.T) {
			r, cmd := press(t, NewReview([]string{"seed/a.sql"}), k)
			assert.True(t, r.Cancelled())
			assert.False(t, r.Confirmed())
			require.NotNil(t, cmd)
		})
	}
}

func TestReview_CursorBounds(t *testing.T) {
	r := NewReview([]string{"a.sql", "b.sql", "c.sql"})

	r, _ = press(t, r, "up")
	assert.Equal(t, 0, r.cursor)

	r, _ = press(t, r, "down", "down", "down", "down")
	assert.Equal(t, 2, r.cursor)

	r, _ = press(t, r, "k")
	assert.Equal(t, 1, r.cursor)
}

func TestReview_Scroll(t *testing.T) {
	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("seed/%03d.sql", i)
	}
	r := NewReview(paths)
	m, _ := r.Update(tea.WindowSizeMsg{Width: 80, Height: 9})
	r = m.(Review)
	assert.Equal(t, 5, r.height)

	view := r.View()
	assert.Contains(t, view, "30 file(s) will be rewritten")
	assert.Contains(t, view, "seed/004.sql")
	assert.NotContains(t, view, "seed/005.sql")
	assert.Contains(t, view, "25 more")

	for range 7 {
		r, _ = press(t, r, "j")
	}
	assert.Equal(t, 7, r.cursor)
	assert.Equal(t, 3, r.offset)

	view = r.View()
	assert.NotContains(t, view, "seed/002.sql")
	assert.Contains(t, view, "seed/007.sql")
}
