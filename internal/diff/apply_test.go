package diff

import (
	"reflect"
	"testing"

	"github.com/tablemend/tablemend/internal/table"
)

func acceptAll(diffs []Difference) []Difference {
	out := append([]Difference(nil), diffs...)
	for i := range out {
		out[i].Status = StatusAccepted
	}
	return out
}

func TestApply_AcceptEverythingRoundTrip(t *testing.T) {
	a := mkTable([]string{"Name", "City"},
		[]string{"Alice", "NYC"},
		[]string{"Bob", "LA"},
	)
	b := mkTable([]string{"Name", "City"},
		[]string{"Alice", "NYC"},
		[]string{"Bob", "SF"},
		[]string{"Carol", "Chicago"},
	)

	got := Apply(a, acceptAll(Compare(a, b)))

	if !reflect.DeepEqual(got.Rows, b.Rows) {
		t.Errorf("rows = %v, want %v", got.Rows, b.Rows)
	}
	if !reflect.DeepEqual(got.Headers, a.Headers) {
		t.Errorf("headers must pass through from the original: %v", got.Headers)
	}
}

func TestApply_RoundTripWithRemovals(t *testing.T) {
	a := mkTable([]string{"A", "B"},
		[]string{"1", "2"},
		[]string{"3", "4"},
		[]string{"5", "6"},
		[]string{"7", "8"},
	)
	b := mkTable([]string{"A", "B"},
		[]string{"1", "2"},
		[]string{"3", "9"},
	)

	got := Apply(a, acceptAll(Compare(a, b)))
	if !reflect.DeepEqual(got.Rows, b.Rows) {
		t.Errorf("rows = %v, want %v", got.Rows, b.Rows)
	}
}

func TestApply_NothingAcceptedLeavesOriginal(t *testing.T) {
	a := mkTable([]string{"A"}, []string{"1"}, []string{"2"})
	b := mkTable([]string{"A"}, []string{"x"})

	got := Apply(a, Compare(a, b))
	if !reflect.DeepEqual(got.Rows, a.Rows) {
		t.Errorf("pending differences must not change anything: %v", got.Rows)
	}
}

func TestApply_RejectedDifferencesIgnored(t *testing.T) {
	a := mkTable([]string{"A"}, []string{"1"})
	b := mkTable([]string{"A"}, []string{"2"})

	diffs := Compare(a, b)
	for i := range diffs {
		diffs[i].Status = StatusRejected
	}

	got := Apply(a, diffs)
	if got.Rows[0][0] != "1" {
		t.Errorf("rejected edit was applied: %v", got.Rows)
	}
}

func TestApply_RemovalBeatsCellEdit(t *testing.T) {
	a := mkTable([]string{"Name", "City"},
		[]string{"Alice", "NYC"},
		[]string{"Bob", "LA"},
	)

	diffs := []Difference{
		{RowPosition: 2, ColumnKey: "City", ColumnIndex: 1, OriginalValue: "LA", NewValue: "SF", Kind: KindModified, Status: StatusAccepted},
		{RowPosition: 2, ColumnKey: EntireRowKey, ColumnIndex: WholeRow, OriginalValue: "Bob,LA", Kind: KindRemoved, Status: StatusAccepted},
	}

	got := Apply(a, diffs)

	want := [][]string{{"Alice", "NYC"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v (row removal wins over cell edit)", got.Rows, want)
	}
}

func TestApply_MultipleRemovalsDoNotShift(t *testing.T) {
	a := mkTable([]string{"A"},
		[]string{"r1"}, []string{"r2"}, []string{"r3"}, []string{"r4"},
	)

	// Removals accepted in ascending order; application must still remove
	// exactly rows 1 and 3 regardless.
	diffs := []Difference{
		{RowPosition: 1, ColumnIndex: WholeRow, OriginalValue: "r1", Kind: KindRemoved, Status: StatusAccepted},
		{RowPosition: 3, ColumnIndex: WholeRow, OriginalValue: "r3", Kind: KindRemoved, Status: StatusAccepted},
	}

	got := Apply(a, diffs)
	want := [][]string{{"r2"}, {"r4"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestApply_AddedRowsAppendInOrder(t *testing.T) {
	a := mkTable([]string{"A", "B"}, []string{"1", "2"})

	diffs := []Difference{
		{RowPosition: 3, ColumnIndex: WholeRow, NewValue: "x,y", Kind: KindAdded, Status: StatusAccepted},
		{RowPosition: 2, ColumnIndex: WholeRow, NewValue: "p,q", Kind: KindAdded, Status: StatusAccepted},
	}

	got := Apply(a, diffs)
	want := [][]string{{"1", "2"}, {"p", "q"}, {"x", "y"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestApply_CellEditExtendsShortRow(t *testing.T) {
	a := mkTable([]string{"A", "B", "C"}, []string{"1"})

	diffs := []Difference{
		{RowPosition: 1, ColumnKey: "C", ColumnIndex: 2, NewValue: "filled", Kind: KindAdded, Status: StatusAccepted},
	}

	got := Apply(a, diffs)
	want := [][]string{{"1", "", "filled"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestApply_StaleCoordinatesIgnored(t *testing.T) {
	a := mkTable([]string{"A"}, []string{"1"})

	diffs := []Difference{
		{RowPosition: 10, ColumnIndex: 0, NewValue: "x", Kind: KindModified, Status: StatusAccepted},
		{RowPosition: 10, ColumnIndex: WholeRow, OriginalValue: "x", Kind: KindRemoved, Status: StatusAccepted},
	}

	got := Apply(a, diffs)
	if !reflect.DeepEqual(got.Rows, a.Rows) {
		t.Errorf("out-of-range coordinates must degrade to no-ops: %v", got.Rows)
	}
}

func TestApply_DoesNotMutateOriginal(t *testing.T) {
	a := mkTable([]string{"A"}, []string{"1"})
	b := mkTable([]string{"A"}, []string{"2"})

	_ = Apply(a, acceptAll(Compare(a, b)))

	if a.Rows[0][0] != "1" {
		t.Errorf("Apply mutated its input: %v", a.Rows)
	}
}

func TestApply_SerializeResult(t *testing.T) {
	a := table.Parse("Name,City\nAlice,NYC\nBob,LA")
	b := table.Parse("Name,City\nAlice,NYC\nBob,SF\nCarol,Chicago")

	out := table.Serialize(Apply(a, acceptAll(Compare(a, b))))
	want := "Name,City\nAlice,NYC\nBob,SF\nCarol,Chicago"
	if out != want {
		t.Errorf("serialized result = %q, want %q", out, want)
	}
}
