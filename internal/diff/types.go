// Package diff computes positional differences between two tables and
// tracks the accept/reject decision recorded for each one.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tablemend/tablemend/internal/table"
)

// Kind classifies a difference.
type Kind int

const (
	KindAdded Kind = iota
	KindRemoved
	KindModified
)

// KindAny matches every kind when filtering.
const KindAny Kind = -1

func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindModified:
		return "modified"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalJSON renders the kind as its lowercase name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the lowercase name form produced by MarshalJSON.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseKind(s)
	if !ok || parsed == KindAny {
		return fmt.Errorf("unknown kind %q", s)
	}
	*k = parsed
	return nil
}

// ParseKind converts a string to a Kind. Empty string and "any" map to
// KindAny. Returns false for anything else unrecognized.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return KindAny, true
	case "added":
		return KindAdded, true
	case "removed":
		return KindRemoved, true
	case "modified":
		return KindModified, true
	default:
		return KindAny, false
	}
}

// Status is the reconciliation decision for a difference.
type Status int

const (
	StatusPending Status = iota
	StatusAccepted
	StatusRejected
)

// StatusAny matches every status when filtering.
const StatusAny Status = -1

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON renders the status as its lowercase name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the lowercase name form produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseStatus(raw)
	if !ok || parsed == StatusAny {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = parsed
	return nil
}

// ParseStatus converts a string to a Status. Empty string and "any" map to
// StatusAny. Returns false for anything else unrecognized.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return StatusAny, true
	case "pending":
		return StatusPending, true
	case "accepted":
		return StatusAccepted, true
	case "rejected":
		return StatusRejected, true
	default:
		return StatusAny, false
	}
}

// WholeRow is the ColumnIndex sentinel for a difference that covers an
// entire row rather than a single cell.
const WholeRow = -1

// EntireRowKey is the ColumnKey used for whole-row differences.
const EntireRowKey = "Entire Row"

// Difference is one detected discrepancy between two tables, scoped to a
// single cell or, with ColumnIndex == WholeRow, to an entire row.
//
// A difference is identified by its (RowPosition, ColumnIndex) pair. The
// list a caller holds may be filtered or reordered for display, so lookups
// must go through that pair and never through list position.
type Difference struct {
	RowPosition   int    `json:"rowPosition"` // 1-based, over the union of both row ranges
	ColumnKey     string `json:"columnKey"`
	ColumnIndex   int    `json:"columnIndex"` // 0-based, WholeRow for row-level entries
	OriginalValue string `json:"originalValue"`
	NewValue      string `json:"newValue"`
	Kind          Kind   `json:"kind"`
	Status        Status `json:"status"`
}

// Key is the stable identity of a difference within one comparison run.
type Key struct {
	Row    int
	Column int
}

func (d Difference) key() Key {
	return Key{Row: d.RowPosition, Column: d.ColumnIndex}
}

// RowCells reconstructs the cell slice carried by a whole-row difference.
func (d Difference) RowCells() []string {
	if d.Kind == KindRemoved {
		return strings.Split(d.OriginalValue, table.Delimiter)
	}
	return strings.Split(d.NewValue, table.Delimiter)
}
