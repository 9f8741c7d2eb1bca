package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tablemend/tablemend/internal/diff"
	tbl "github.com/tablemend/tablemend/internal/table"
)

// renderDifferences writes the difference list in the requested format.
func renderDifferences(w io.Writer, diffs []diff.Difference, format string) error {
	switch strings.ToLower(format) {
	case "table", "":
		renderTable(w, diffs)
		return nil
	case "json":
		return renderJSON(w, diffs)
	case "csv":
		renderCSV(w, diffs)
		return nil
	case "md", "markdown":
		renderMarkdown(w, diffs)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table, json, csv, or md)", format)
	}
}

func newWriter(w io.Writer, diffs []diff.Difference) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Row", "Column", "Kind", "Original", "New", "Status"})
	for _, d := range diffs {
		t.AppendRow(table.Row{
			d.RowPosition,
			d.ColumnKey,
			d.Kind.String(),
			displayValue(d.OriginalValue),
			displayValue(d.NewValue),
			d.Status.String(),
		})
	}
	return t
}

func renderTable(w io.Writer, diffs []diff.Difference) {
	t := newWriter(w, diffs)
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderCSV(w io.Writer, diffs []diff.Difference) {
	newWriter(w, diffs).RenderCSV()
}

func renderMarkdown(w io.Writer, diffs []diff.Difference) {
	newWriter(w, diffs).RenderMarkdown()
}

func renderJSON(w io.Writer, diffs []diff.Difference) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diffs)
}

// displayValue truncates long cell values so whole-row differences,
// which carry a full delimited row, stay readable in narrow terminals.
func displayValue(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	cells := strings.Split(s, tbl.Delimiter)
	if len(cells) > 1 {
		return cells[0] + tbl.Delimiter + "…"
	}
	return s[:max-1] + "…"
}
