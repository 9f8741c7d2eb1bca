package diff

import "strings"

// Stats aggregates counts over a full difference set.
// Added+Removed+Modified == Total and Accepted+Rejected+Pending == Total.
type Stats struct {
	Total    int `json:"total"`
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// Store holds one comparison run's differences and their decision state.
//
// The store never creates or destroys entries; it only mutates Status. A
// new comparison run gets a new Store. Lookups are keyed by the
// (RowPosition, ColumnIndex) identity pair so that filtered or reordered
// views can never mutate the wrong entry.
//
// Store is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Store struct {
	diffs []Difference
	index map[Key]int // identity pair -> position in diffs
}

// NewStore wraps a Differ batch in decision-tracking state. The slice is
// retained in its original emission order.
func NewStore(diffs []Difference) *Store {
	s := &Store{
		diffs: diffs,
		index: make(map[Key]int, len(diffs)),
	}
	for i, d := range diffs {
		s.index[d.key()] = i
	}
	return s
}

// Len returns the total number of differences.
func (s *Store) Len() int {
	return len(s.diffs)
}

// All returns a copy of the full difference set in emission order.
func (s *Store) All() []Difference {
	return append([]Difference(nil), s.diffs...)
}

// SetStatus records a decision for the difference identified by the
// (rowPosition, columnIndex) pair. Unknown coordinates are a silent no-op:
// a filtered view can legitimately hold stale coordinates after the
// working set was replaced, and that must not surface as an error.
func (s *Store) SetStatus(rowPosition, columnIndex int, status Status) {
	i, ok := s.index[Key{Row: rowPosition, Column: columnIndex}]
	if !ok {
		return
	}
	s.diffs[i].Status = status
}

// SetAll overwrites every difference's status. Used for bulk
// accept-all/reject-all and for resetting decisions back to pending.
func (s *Store) SetAll(status Status) {
	for i := range s.diffs {
		s.diffs[i].Status = status
	}
}

// Filter returns the differences matching all three predicates, preserving
// emission order. kind and status may be KindAny/StatusAny to match
// everything; a non-empty search must case-insensitively substring-match
// the column key, original value, or new value.
func (s *Store) Filter(kind Kind, status Status, search string) []Difference {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]Difference, 0, len(s.diffs))
	for _, d := range s.diffs {
		if kind != KindAny && d.Kind != kind {
			continue
		}
		if status != StatusAny && d.Status != status {
			continue
		}
		if needle != "" && !matchesSearch(d, needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Stats computes aggregate counts over the full, unfiltered set.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.diffs)}
	for _, d := range s.diffs {
		switch d.Kind {
		case KindAdded:
			st.Added++
		case KindRemoved:
			st.Removed++
		case KindModified:
			st.Modified++
		}
		switch d.Status {
		case StatusAccepted:
			st.Accepted++
		case StatusRejected:
			st.Rejected++
		case StatusPending:
			st.Pending++
		}
	}
	return st
}

func matchesSearch(d Difference, needle string) bool {
	return strings.Contains(strings.ToLower(d.ColumnKey), needle) ||
		strings.Contains(strings.ToLower(d.OriginalValue), needle) ||
		strings.Contains(strings.ToLower(d.NewValue), needle)
}
