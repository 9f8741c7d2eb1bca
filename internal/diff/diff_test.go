package diff

import (
	"testing"

	"github.com/tablemend/tablemend/internal/table"
)

func mkTable(headers []string, rows ...[]string) table.Table {
	return table.Table{Headers: headers, Rows: rows}
}

func TestCompare_IdenticalTablesYieldNothing(t *testing.T) {
	tables := []table.Table{
		{},
		mkTable([]string{"A"}),
		mkTable([]string{"Name", "City"}, []string{"Alice", "NYC"}, []string{"Bob", "LA"}),
		mkTable(nil, []string{""}, []string{"x", "", "y"}),
	}
	for _, tbl := range tables {
		if diffs := Compare(tbl, tbl); len(diffs) != 0 {
			t.Errorf("Compare(A, A) on %v produced %d differences", tbl, len(diffs))
		}
	}
}

func TestCompare_ModifiedCellAndAddedRow(t *testing.T) {
	a := mkTable([]string{"Name", "City"},
		[]string{"Alice", "NYC"},
		[]string{"Bob", "LA"},
	)
	b := mkTable([]string{"Name", "City"},
		[]string{"Alice", "NYC"},
		[]string{"Bob", "SF"},
		[]string{"Carol", "Chicago"},
	)

	diffs := Compare(a, b)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %d: %+v", len(diffs), diffs)
	}

	mod := diffs[0]
	if mod.RowPosition != 2 || mod.ColumnKey != "City" || mod.ColumnIndex != 1 {
		t.Errorf("unexpected coordinates: %+v", mod)
	}
	if mod.Kind != KindModified || mod.OriginalValue != "LA" || mod.NewValue != "SF" {
		t.Errorf("unexpected classification: %+v", mod)
	}
	if mod.Status != StatusPending {
		t.Errorf("new difference should be pending, got %v", mod.Status)
	}

	added := diffs[1]
	if added.RowPosition != 3 || added.ColumnIndex != WholeRow || added.Kind != KindAdded {
		t.Errorf("unexpected whole-row entry: %+v", added)
	}
	if added.NewValue != "Carol,Chicago" {
		t.Errorf("NewValue = %q, want %q", added.NewValue, "Carol,Chicago")
	}
	if added.ColumnKey != EntireRowKey {
		t.Errorf("ColumnKey = %q, want %q", added.ColumnKey, EntireRowKey)
	}
}

func TestCompare_EmptyVersusOneRow(t *testing.T) {
	empty := table.Table{}
	one := mkTable(nil, []string{"X", "Y"})

	diffs := Compare(empty, one)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(diffs))
	}
	if diffs[0].RowPosition != 1 || diffs[0].Kind != KindAdded || diffs[0].ColumnIndex != WholeRow {
		t.Errorf("unexpected difference: %+v", diffs[0])
	}

	// Swapping the arguments mirrors the classification.
	diffs = Compare(one, empty)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(diffs))
	}
	if diffs[0].RowPosition != 1 || diffs[0].Kind != KindRemoved {
		t.Errorf("unexpected difference: %+v", diffs[0])
	}
	if diffs[0].OriginalValue != "X,Y" {
		t.Errorf("OriginalValue = %q, want %q", diffs[0].OriginalValue, "X,Y")
	}
}

func TestCompare_KindSymmetry(t *testing.T) {
	a := mkTable([]string{"A", "B", "C"},
		[]string{"", "keep", "old"},
		[]string{"gone", "", "same"},
	)
	b := mkTable([]string{"A", "B", "C"},
		[]string{"new", "keep", "changed"},
		[]string{"", "filled", "same"},
	)

	forward := Compare(a, b)
	backward := Compare(b, a)

	byKey := func(diffs []Difference) map[Key]Difference {
		m := make(map[Key]Difference, len(diffs))
		for _, d := range diffs {
			m[Key{Row: d.RowPosition, Column: d.ColumnIndex}] = d
		}
		return m
	}
	back := byKey(backward)

	for _, d := range forward {
		mirror, ok := back[Key{Row: d.RowPosition, Column: d.ColumnIndex}]
		if !ok {
			t.Fatalf("no mirrored difference for %+v", d)
		}
		switch d.Kind {
		case KindAdded:
			if mirror.Kind != KindRemoved {
				t.Errorf("(%d,%d): Added should mirror to Removed, got %v", d.RowPosition, d.ColumnIndex, mirror.Kind)
			}
		case KindRemoved:
			if mirror.Kind != KindAdded {
				t.Errorf("(%d,%d): Removed should mirror to Added, got %v", d.RowPosition, d.ColumnIndex, mirror.Kind)
			}
		case KindModified:
			if mirror.Kind != KindModified {
				t.Errorf("(%d,%d): Modified should mirror to Modified, got %v", d.RowPosition, d.ColumnIndex, mirror.Kind)
			}
		}
	}
}

func TestCompare_Ordering(t *testing.T) {
	a := mkTable([]string{"A", "B"},
		[]string{"1", "2"},
		[]string{"3", "4"},
		[]string{"5", "6"},
	)
	b := mkTable([]string{"A", "B"},
		[]string{"x", "y"},
		[]string{"3", "4"},
	)

	diffs := Compare(a, b)

	lastRow := 0
	for _, d := range diffs {
		if d.RowPosition < lastRow {
			t.Fatalf("row positions not ascending: %+v", diffs)
		}
		lastRow = d.RowPosition
	}

	// Row 1 has two cell diffs in column order, row 3 is a whole-row removal.
	if diffs[0].ColumnIndex != 0 || diffs[1].ColumnIndex != 1 {
		t.Errorf("cell diffs out of column order: %+v", diffs[:2])
	}
	if diffs[2].ColumnIndex != WholeRow || diffs[2].RowPosition != 3 {
		t.Errorf("expected whole-row removal at row 3, got %+v", diffs[2])
	}
}

func TestCompare_ColumnNameResolution(t *testing.T) {
	// Updated table is wider than both header rows.
	a := mkTable([]string{"First"}, []string{"a"})
	b := mkTable([]string{"First", "Second"}, []string{"a", "b", "c"})

	diffs := Compare(a, b)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %+v", diffs)
	}

	if diffs[0].ColumnKey != "Second" {
		t.Errorf("column 1 name = %q, want %q (updated headers fill the gap)", diffs[0].ColumnKey, "Second")
	}
	if diffs[1].ColumnKey != "Column 3" {
		t.Errorf("column 2 name = %q, want %q (synthesized)", diffs[1].ColumnKey, "Column 3")
	}
}

func TestCompare_EmptyToValueIsAdded(t *testing.T) {
	a := mkTable([]string{"A", "B"}, []string{"", "x"})
	b := mkTable([]string{"A", "B"}, []string{"v", ""})

	diffs := Compare(a, b)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %+v", diffs)
	}
	if diffs[0].Kind != KindAdded {
		t.Errorf("empty->value should be Added, got %v", diffs[0].Kind)
	}
	if diffs[1].Kind != KindRemoved {
		t.Errorf("value->empty should be Removed, got %v", diffs[1].Kind)
	}
}

func TestParseKindAndStatus(t *testing.T) {
	if k, ok := ParseKind(""); !ok || k != KindAny {
		t.Errorf("ParseKind(\"\") = %v, %v", k, ok)
	}
	if k, ok := ParseKind("Modified"); !ok || k != KindModified {
		t.Errorf("ParseKind(Modified) = %v, %v", k, ok)
	}
	if _, ok := ParseKind("bogus"); ok {
		t.Error("ParseKind(bogus) should fail")
	}
	if s, ok := ParseStatus("accepted"); !ok || s != StatusAccepted {
		t.Errorf("ParseStatus(accepted) = %v, %v", s, ok)
	}
	if _, ok := ParseStatus("nope"); ok {
		t.Error("ParseStatus(nope) should fail")
	}
}
