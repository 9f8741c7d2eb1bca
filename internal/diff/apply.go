package diff

import (
	"sort"

	"github.com/tablemend/tablemend/internal/table"
)

// Apply materializes a corrected table from the original and the accepted
// entries of a difference set. Headers pass through untouched; only rows
// are transformed. Non-accepted entries and unknown coordinates are
// ignored, so Apply is total and never fails.
//
// Whole-row insertions and removals shift row indices, so application
// order is fixed to make the result independent of the order decisions
// were made in:
//
//  1. cell-level edits, written against the original row layout;
//  2. whole-row removals, in descending row position so earlier removals
//     never shift a not-yet-processed removal;
//  3. whole-row additions, in ascending row position, appended to the end.
//
// A row with both an accepted whole-row removal and an accepted cell edit
// is removed; the cell edit is discarded. A row being deleted cannot also
// be edited in place.
func Apply(original table.Table, diffs []Difference) table.Table {
	rows := original.CloneRows()

	var removals, additions []Difference
	removedRows := make(map[int]bool)
	for _, d := range diffs {
		if d.Status != StatusAccepted || d.ColumnIndex != WholeRow {
			continue
		}
		switch d.Kind {
		case KindRemoved:
			removals = append(removals, d)
			removedRows[d.RowPosition] = true
		case KindAdded:
			additions = append(additions, d)
		}
	}

	// Phase 1: cell edits. Row positions still line up with the original
	// table here, before any removal shifts them.
	for _, d := range diffs {
		if d.Status != StatusAccepted || d.ColumnIndex == WholeRow {
			continue
		}
		if removedRows[d.RowPosition] {
			continue
		}
		i := d.RowPosition - 1
		if i < 0 || i >= len(rows) {
			continue
		}
		row := rows[i]
		for len(row) <= d.ColumnIndex {
			row = append(row, "")
		}
		row[d.ColumnIndex] = d.NewValue
		rows[i] = row
	}

	// Phase 2: whole-row removals, highest position first.
	sort.Slice(removals, func(a, b int) bool {
		return removals[a].RowPosition > removals[b].RowPosition
	})
	for _, d := range removals {
		i := d.RowPosition - 1
		if i < 0 || i >= len(rows) {
			continue
		}
		rows = append(rows[:i], rows[i+1:]...)
	}

	// Phase 3: whole-row additions, lowest position first.
	sort.Slice(additions, func(a, b int) bool {
		return additions[a].RowPosition < additions[b].RowPosition
	})
	for _, d := range additions {
		rows = append(rows, d.RowCells())
	}

	return table.Table{Headers: original.Headers, Rows: rows}
}
