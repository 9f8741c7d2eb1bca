package diff

import (
	"fmt"
	"strings"

	"github.com/tablemend/tablemend/internal/table"
)

// Compare walks both tables position by position and returns every
// discrepancy, ordered by row position ascending and, within a row, the
// whole-row entry (if any) before cell entries in column order.
//
// Rows are matched strictly by index; there is no key-based or fuzzy row
// alignment. A row present in only one table produces a single whole-row
// difference and no cell-level entries. All entries start out Pending.
//
// Compare is total: any two tables, including empty ones, are comparable.
func Compare(original, updated table.Table) []Difference {
	maxRows := max(len(original.Rows), len(updated.Rows))

	var diffs []Difference
	for i := 0; i < maxRows; i++ {
		inOriginal := i < len(original.Rows)
		inUpdated := i < len(updated.Rows)

		switch {
		case !inOriginal:
			diffs = append(diffs, Difference{
				RowPosition: i + 1,
				ColumnKey:   EntireRowKey,
				ColumnIndex: WholeRow,
				NewValue:    strings.Join(updated.Rows[i], table.Delimiter),
				Kind:        KindAdded,
			})
		case !inUpdated:
			diffs = append(diffs, Difference{
				RowPosition:   i + 1,
				ColumnKey:     EntireRowKey,
				ColumnIndex:   WholeRow,
				OriginalValue: strings.Join(original.Rows[i], table.Delimiter),
				Kind:          KindRemoved,
			})
		default:
			diffs = append(diffs, compareRow(i, original.Rows[i], updated.Rows[i], original.Headers, updated.Headers)...)
		}
	}
	return diffs
}

// compareRow emits one cell-level difference per unequal column position.
// Short rows are padded with "" so both sides always have a value.
func compareRow(i int, originalRow, updatedRow, originalHeaders, updatedHeaders []string) []Difference {
	maxCols := max(len(originalRow), len(updatedRow))

	var diffs []Difference
	for j := 0; j < maxCols; j++ {
		v1 := cellAt(originalRow, j)
		v2 := cellAt(updatedRow, j)
		if v1 == v2 {
			continue
		}

		diffs = append(diffs, Difference{
			RowPosition:   i + 1,
			ColumnKey:     columnName(j, originalHeaders, updatedHeaders),
			ColumnIndex:   j,
			OriginalValue: v1,
			NewValue:      v2,
			Kind:          classify(v1, v2),
		})
	}
	return diffs
}

// classify checks emptiness of the original value first, then the new
// value, defaulting to Modified. The order matters: a difference where the
// original is empty is an addition even though the column exists.
// Empty-to-empty never reaches here because equal cells are skipped.
func classify(original, updated string) Kind {
	if original == "" {
		return KindAdded
	}
	if updated == "" {
		return KindRemoved
	}
	return KindModified
}

// columnName resolves a display name for column j: the original table's
// header wins, then the updated table's, then a synthesized placeholder.
func columnName(j int, originalHeaders, updatedHeaders []string) string {
	if j < len(originalHeaders) {
		return originalHeaders[j]
	}
	if j < len(updatedHeaders) {
		return updatedHeaders[j]
	}
	return fmt.Sprintf("Column %d", j+1)
}

func cellAt(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}
