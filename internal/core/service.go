// Package core coordinates comparison sessions: parsing the two source
// tables, diffing them, tracking reconciliation decisions, and producing
// the corrected output. This package has no HTTP or CLI dependencies and
// is used by both frontends.
package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tablemend/tablemend/internal/diff"
	"github.com/tablemend/tablemend/internal/table"
)

// ErrSessionNotFound is returned when a session ID is unknown or evicted.
var ErrSessionNotFound = errors.New("comparison session not found")

// Service owns the session registry and the optional run history sink.
type Service struct {
	sessions *SessionRegistry
	history  *History // nil when no database is configured
}

// NewService creates a Service around an explicitly constructed registry.
// history may be nil; run summaries are then simply not recorded.
func NewService(sessions *SessionRegistry, history *History) *Service {
	return &Service{
		sessions: sessions,
		history:  history,
	}
}

// Compare parses both texts, diffs them, and opens a new session holding
// the result. Parsing and diffing are total, so Compare itself cannot fail;
// a history write failure is logged and swallowed because the comparison
// result is already complete and usable.
func (s *Service) Compare(ctx context.Context, originalName, updatedName, originalText, updatedText string) (*Session, diff.Stats) {
	original := table.Parse(originalText)
	updated := table.Parse(updatedText)

	sess := &Session{
		ID:           uuid.NewString(),
		OriginalName: originalName,
		UpdatedName:  updatedName,
		Original:     original,
		Store:        diff.NewStore(diff.Compare(original, updated)),
		CreatedAt:    time.Now().UTC(),
	}
	s.sessions.Add(sess)

	stats := sess.Store.Stats()
	if s.history != nil {
		if err := s.history.RecordRun(ctx, sess, stats); err != nil {
			slog.Warn("failed to record comparison run", "session_id", sess.ID, "error", err)
		}
	}

	slog.Info("comparison session opened",
		"session_id", sess.ID,
		"original", originalName,
		"updated", updatedName,
		"differences", stats.Total,
	)
	return sess, stats
}

// Differences returns the session's difference list filtered by kind,
// status, and search text.
func (s *Service) Differences(id string, kind diff.Kind, status diff.Status, search string) ([]diff.Difference, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Store.Filter(kind, status, search), nil
}

// SetStatus records a decision for one difference, addressed by its
// (rowPosition, columnIndex) identity pair. Unknown coordinates inside a
// live session are a no-op by design; only an unknown session is an error.
func (s *Service) SetStatus(id string, rowPosition, columnIndex int, status diff.Status) error {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	sess.Store.SetStatus(rowPosition, columnIndex, status)
	return nil
}

// SetAll applies one decision to every difference in the session.
func (s *Service) SetAll(id string, status diff.Status) error {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	sess.Store.SetAll(status)
	return nil
}

// Stats returns aggregate counts over the session's full difference set.
func (s *Service) Stats(id string) (diff.Stats, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return diff.Stats{}, ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Store.Stats(), nil
}

// Result applies the session's accepted differences to the original table
// and serializes the corrected table for download.
func (s *Service) Result(ctx context.Context, id string) (string, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return "", ErrSessionNotFound
	}

	sess.Lock()
	corrected := diff.Apply(sess.Original, sess.Store.All())
	sess.Unlock()

	if s.history != nil {
		if err := s.history.MarkApplied(ctx, sess.ID); err != nil {
			slog.Warn("failed to mark run applied", "session_id", sess.ID, "error", err)
		}
	}
	return table.Serialize(corrected), nil
}

// Close discards a session and its reconciliation state.
func (s *Service) Close(id string) error {
	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	slog.Info("comparison session closed", "session_id", id)
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Count()
}

// HistoryEnabled reports whether a run history sink is configured.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// RecentRuns returns the most recent comparison run summaries. Returns
// ErrHistoryDisabled when no database is configured.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}
