package placeholder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

func tokenize(text string) [][]lexer.Token {
	lines, _ := lexer.TokenizeAll(strings.Split(text, "\n"))
	return lines
}

func render(lines [][]lexer.Token) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = lexer.Join(l)
	}
	return strings.Join(out, "\n")
}

func counter() Generator {
	n := 0
	return func(string) string {
		n++
		return fmt.Sprintf("v%d", n)
	}
}

func TestMaterialize_LongestMatch(t *testing.T) {
	m, err := New(Grammar{Tags: []string{"tag"}})
	require.NoError(t, err)

	out, pm, stats := m.Materialize(tokenize("VALUES ('tag-1', 'tag-12'), ('tag-12', 'tag-1');"))
	got := render(out)

	v1, ok := pm.Value("tag-1")
	require.True(t, ok)
	v12, ok := pm.Value("tag-12")
	require.True(t, ok)

	assert.NotEqual(t, v1, v12)
	assert.Equal(t, fmt.Sprintf("VALUES ('%s', '%s'), ('%s', '%s');", v1, v12, v12, v1), got)
	assert.NotContains(t, got, "tag-1")
	assert.Equal(t, []string{"tag-12", "tag-1"}, pm.Keys())
	assert.Equal(t, Stats{Placeholders: 2, Occurrences: 4}, stats)
}

func TestMaterialize_OneValuePerPlaceholder(t *testing.T) {
	m, err := New(DefaultGrammar(), WithGenerator(counter()))
	require.NoError(t, err)

	text := "('user-1', 'demo-family')\n('user-1', 'fm-admin-1', 'user-2');"
	out, pm, stats := m.Materialize(tokenize(text))

	assert.Equal(t, 4, pm.Len())
	assert.Equal(t, 5, stats.Occurrences)

	got := render(out)
	u1, _ := pm.Value("user-1")
	assert.Equal(t, 2, strings.Count(got, "'"+u1+"'"))
}

func TestMaterialize_OnlyWholeLiterals(t *testing.T) {
	m, err := New(DefaultGrammar(), WithGenerator(counter()))
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
	}{
		{"embedded in text", "('hello user-1')"},
		{"identifier", "SELECT user-1 FROM t"},
		{"comment", "-- 'user-1'"},
		{"double quoted", `("user-1")`},
		{"unknown tag", "('group-1')"},
		{"no numeral", "('user-')"},
		{"trailing text", "('user-1a')"},
		{"already a uuid", "('7b2e9c4a-1f3d-4e5b-9a6c-2d8f0e1b3c5a')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, pm, stats := m.Materialize(tokenize(tt.in))
			assert.Equal(t, tt.in, render(out))
			assert.Zero(t, pm.Len())
			assert.Zero(t, stats.Occurrences)
		})
	}
}

func TestMaterialize_RandomValuesDifferAcrossRuns(t *testing.T) {
	m, err := New(DefaultGrammar())
	require.NoError(t, err)

	lines := tokenize("('user-1');")
	_, first, _ := m.Materialize(lines)
	_, second, _ := m.Materialize(lines)

	a, _ := first.Value("user-1")
	b, _ := second.Value("user-1")
	assert.NotEqual(t, a, b)
	_, err = uuid.Parse(a)
	assert.NoError(t, err)
}

func TestSeededGenerator(t *testing.T) {
	gen := SeededGenerator("fixtures")
	assert.Equal(t, gen("user-1"), SeededGenerator("fixtures")("user-1"))
	assert.NotEqual(t, gen("user-1"), gen("user-2"))
	assert.NotEqual(t, gen("user-1"), SeededGenerator("other")("user-1"))
}

func TestMaterialize_DoesNotModifyInput(t *testing.T) {
	m, err := New(DefaultGrammar())
	require.NoError(t, err)

	lines := tokenize("('user-1', 2)")
	_, _, _ = m.Materialize(lines)
	assert.Equal(t, "('user-1', 2)", render(lines))
}

func TestMaterialize_OffsetsRecomputed(t *testing.T) {
	m, err := New(Grammar{Names: []string{"x"}}, WithGenerator(func(string) string { return "long-value" }))
	require.NoError(t, err)

	out, _, _ := m.Materialize(tokenize("('x', 1)"))
	for _, tok := range out[0] {
		assert.Equal(t, len(tok.Text), tok.End-tok.Start)
	}
}

func TestNew_InvalidGrammar(t *testing.T) {
	_, err := New(Grammar{Tags: []string{"bad tag"}})
	assert.ErrorIs(t, err, seedshift.ErrInvalidConfig)

	_, err = New(Grammar{Names: []string{"it's"}})
	assert.ErrorIs(t, err, seedshift.ErrInvalidConfig)
}

func TestGrammar_IsZero(t *testing.T) {
	assert.True(t, Grammar{}.IsZero())
	assert.False(t, DefaultGrammar().IsZero())

	m, err := New(Grammar{})
	require.NoError(t, err)
	_, pm, _ := m.Materialize(tokenize("('user-1')"))
	assert.Zero(t, pm.Len())
}
