package rewrite

import (
	"errors"
	"strings"

	"github.com/vvka-141/seedshift/internal/filter"
	"github.com/vvka-141/seedshift/internal/lexer"
	"github.com/vvka-141/seedshift/internal/placeholder"
	"github.com/vvka-141/seedshift/internal/rename"
	"github.com/vvka-141/seedshift/internal/shape"
	"github.com/vvka-141/seedshift/internal/statement"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

// Rules is the compiled rule set for a run. Nil members disable their pass.
type Rules struct {
	Renames      *rename.Engine
	Deny         *filter.DenyList
	Placeholders *placeholder.Materializer

	// Tables maps a table name (after renames) to its ordered column ops.
	// Keys are matched case-insensitively, either against the full
	// qualified name or its last segment.
	Tables map[string][]shape.Op
}

// Result is the output of one rewrite.
type Result struct {
	Text    string
	Report  Report
	Changed bool

	// Values maps each materialized placeholder to the value written in
	// its place. Nil when the placeholder pass is off.
	Values *placeholder.Map
}

// Rewriter applies a fixed rule set to documents. It holds no per-document
// state and is safe for concurrent use.
type Rewriter struct {
	rules  Rules
	tables map[string][]shape.Op
}

// New creates a Rewriter for rules.
func New(rules Rules) *Rewriter {
	tables := make(map[string][]shape.Op, len(rules.Tables))
	for name, ops := range rules.Tables {
		tables[normalizeTable(name)] = ops
	}
	return &Rewriter{rules: rules, tables: tables}
}

// Rewrite runs every pass over text. It fails only when the document
// cannot be split into blocks; the returned error then wraps
// seedshift.ErrUnclosedBlock and no text is produced.
//
// A block whose column ops fail keeps its original text: its renames and
// placeholders are not applied and are not counted in the report.
func (r *Rewriter) Rewrite(text string) (Result, error) {
	doc := statement.ParseDocument(text)
	original, warnings := lexer.TokenizeAll(doc.Texts())

	var report Report
	report.Warnings = append(report.Warnings, warnings...)

	blocks, err := statement.Scan(original)
	if err != nil {
		return Result{}, err
	}

	tokens := original
	if r.rules.Renames != nil {
		tokens, _ = r.rules.Renames.Apply(original)
	}

	// Lines outside the output (denied blocks) or kept as written (failed
	// blocks).
	dropped := make([]bool, len(doc.Lines))
	frozen := make([]bool, len(doc.Lines))

	if r.rules.Deny != nil {
		report.BlocksDeleted = r.rules.Deny.Mark(blocks, func(b *statement.Block) string {
			table, _ := statement.HeaderTable(tokens[b.HeaderLine])
			return table
		})
		for _, b := range blocks {
			if b.Deleted {
				markLines(dropped, b)
			}
		}
	}

	texts := make([]string, len(tokens))
	for i, line := range tokens {
		if !dropped[i] {
			texts[i] = lexer.Join(line)
		}
	}

	reshaped := false
	for _, b := range blocks {
		if b.Deleted {
			continue
		}
		if table, ok := statement.HeaderTable(tokens[b.HeaderLine]); ok {
			b.Table = table
		}
		ops := r.opsFor(b.Table)
		if len(ops) == 0 {
			continue
		}
		edits, stats, err := reshape(b, tokens, ops)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedBlock{Table: b.Table, Line: b.HeaderLine + 1, Err: err})
			if errors.Is(err, seedshift.ErrHeaderWithoutColumnList) {
				report.Warnings = append(report.Warnings, err)
			}
			markLines(frozen, b)
			for i := b.StartLine(); i <= b.EndLine(); i++ {
				texts[i] = doc.Lines[i].Text
			}
			continue
		}
		for line, t := range edits {
			texts[line] = t
		}
		report.recordShape(b.Table, stats)
		reshaped = reshaped || len(edits) > 0
	}

	excluded := make([]bool, len(doc.Lines))
	for i := range excluded {
		excluded[i] = dropped[i] || frozen[i]
	}

	if r.rules.Renames != nil {
		_, stats := r.rules.Renames.ApplyExcept(original, excluded)
		report.Renamed = stats.Renamed
		report.RenamedByRule = stats.ByRule
	}

	var values *placeholder.Map
	if r.rules.Placeholders != nil {
		if reshaped {
			tokens, _ = lexer.TokenizeAll(texts)
		}
		visible := make([][]lexer.Token, len(tokens))
		for i, line := range tokens {
			if !excluded[i] {
				visible[i] = line
			}
		}
		var stats placeholder.Stats
		visible, values, stats = r.rules.Placeholders.Materialize(visible)
		report.Placeholders = stats.Placeholders
		report.PlaceholderOccurrences = stats.Occurrences
		for i, line := range visible {
			if !excluded[i] {
				texts[i] = lexer.Join(line)
			}
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, line := range doc.Lines {
		if dropped[i] {
			continue
		}
		b.WriteString(texts[i])
		b.WriteString(line.EOL)
	}
	out := b.String()

	return Result{Text: out, Report: report, Changed: out != text, Values: values}, nil
}

func markLines(lines []bool, b *statement.Block) {
	for i := b.StartLine(); i <= b.EndLine(); i++ {
		lines[i] = true
	}
}

func (r *Rewriter) opsFor(table string) []shape.Op {
	if len(r.tables) == 0 {
		return nil
	}
	name := normalizeTable(table)
	if ops, ok := r.tables[name]; ok {
		return ops
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return r.tables[name[i+1:]]
	}
	return nil
}

func normalizeTable(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), `"`, ""))
}
