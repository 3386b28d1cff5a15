package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vvka-141/seedshift/internal/rewrite"
	"github.com/vvka-141/seedshift/internal/services"
	"github.com/vvka-141/seedshift/internal/tui"
	"github.com/vvka-141/seedshift/pkg/seedshift"
)

func renderSummary(w io.Writer, summary *services.Summary, format string) error {
	switch format {
	case outputJSON:
		return renderJSON(w, summary)
	default:
		renderTable(w, summary)
		return nil
	}
}

func renderTable(w io.Writer, summary *services.Summary) {
	for _, f := range summary.Files {
		switch f.Status {
		case seedshift.FileUpdated:
			if f.LayoutOnly {
				_, _ = fmt.Fprintln(w, tui.LayoutOnlyStyle.Render(fmt.Sprintf("%s %s (layout only)", tui.SymbolLayout, f.RelativePath)))
				continue
			}
			_, _ = fmt.Fprintln(w, tui.SuccessStyle.Render(fmt.Sprintf("%s %s", tui.SymbolCheck, f.RelativePath)))
		case seedshift.FileSkipped:
			_, _ = fmt.Fprintln(w, tui.ErrorStyle.Render(fmt.Sprintf("%s %s: %v", tui.SymbolCross, f.RelativePath, f.Err)))
		}
	}

	r := summary.Report
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Change", "Count"})
	t.AppendRows([]table.Row{
		{"Identifiers renamed", r.Renamed},
		{"Columns changed", r.ColumnsChanged()},
		{"Blocks deleted", r.BlocksDeleted},
		{"Placeholders", fmt.Sprintf("%d (%d occurrences)", r.Placeholders, r.PlaceholderOccurrences)},
		{"Blocks skipped", len(r.Skipped)},
		{"Warnings", len(r.Warnings)},
	})
	t.Render()

	if len(r.Tables) > 0 {
		tt := table.NewWriter()
		tt.SetOutputMirror(w)
		tt.SetStyle(table.StyleLight)
		tt.AppendHeader(table.Row{"Table", "Blocks", "Inserted", "Removed", "Renamed"})
		for _, name := range r.TableNames() {
			ts := r.Tables[name]
			tt.AppendRow(table.Row{name, ts.Blocks, ts.Inserted, ts.Removed, ts.Renamed})
		}
		tt.Render()
	}

	_, _ = fmt.Fprintf(w, "Files: %d updated, %d unchanged, %d skipped\n",
		summary.Count(seedshift.FileUpdated), summary.Count(seedshift.FileUnchanged), summary.Count(seedshift.FileSkipped))
}

type jsonFile struct {
	Path       string `json:"path"`
	Status     string `json:"status"`
	LayoutOnly bool   `json:"layout_only,omitempty"`
	Error      string `json:"error,omitempty"`
}

type jsonSkippedBlock struct {
	File  string `json:"file"`
	Table string `json:"table"`
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type jsonSummary struct {
	Files         []jsonFile         `json:"files"`
	Report        rewrite.Report     `json:"report"`
	SkippedBlocks []jsonSkippedBlock `json:"skipped_blocks,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
	Written       bool               `json:"written"`
}

func renderJSON(w io.Writer, summary *services.Summary) error {
	out := jsonSummary{
		Files:   make([]jsonFile, 0, len(summary.Files)),
		Report:  summary.Report,
		Written: summary.Written,
	}
	for _, f := range summary.Files {
		jf := jsonFile{Path: f.RelativePath, Status: f.Status.String(), LayoutOnly: f.LayoutOnly}
		if f.Err != nil {
			jf.Error = f.Err.Error()
		}
		out.Files = append(out.Files, jf)
		for _, b := range f.Report.Skipped {
			out.SkippedBlocks = append(out.SkippedBlocks, jsonSkippedBlock{
				File: f.RelativePath, Table: b.Table, Line: b.Line, Error: fmt.Sprint(b.Err),
			})
		}
		for _, warn := range f.Report.Warnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", f.RelativePath, warn))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
