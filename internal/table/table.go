// Package table parses and serializes delimited-text tables.
//
// The format is deliberately simpler than RFC 4180 CSV: fields are split on
// the raw delimiter, surrounding whitespace is trimmed, and literal
// double-quote characters are stripped. There is no quoted-field or escaped
// delimiter support, so a cell that itself contains the delimiter will not
// round-trip. This mirrors the files this tool is pointed at, which are
// machine-generated exports that never quote.
package table

import "strings"

// Delimiter separates fields within a line.
const Delimiter = ","

// Table is an ordered header row plus ordered data rows of string cells.
// Duplicate header names are permitted, and row lengths are not required to
// match the header count.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse converts raw delimited text into a Table.
//
// Lines that are empty after trimming are discarded. The first surviving
// line becomes the header row; every other surviving line becomes one data
// row. Malformed or empty input degrades to an empty table, never an error.
func Parse(raw string) Table {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Table{}
	}

	t := Table{Headers: splitLine(lines[0])}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, splitLine(line))
	}
	return t
}

// Serialize renders a Table back into delimited text: the header line first,
// then one line per row, newline-separated. Cells are written as-is with no
// re-quoting.
func Serialize(t Table) string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Headers, Delimiter))
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, Delimiter))
	}
	return strings.Join(lines, "\n")
}

// CloneRows returns a deep copy of the table's rows.
func (t Table) CloneRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}

func splitLine(line string) []string {
	fields := strings.Split(line, Delimiter)
	for i, f := range fields {
		fields[i] = CleanCell(f)
	}
	return fields
}

// CleanCell trims surrounding whitespace and strips literal double quotes.
// Applied to headers and data cells alike.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, `"`, "")
}
