package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tablemend/tablemend/internal/core"
	"github.com/tablemend/tablemend/internal/diff"
	"github.com/tablemend/tablemend/internal/logging"
)

// compareResponse is returned when a comparison session is opened.
type compareResponse struct {
	SessionID string     `json:"sessionId"`
	Original  string     `json:"original"`
	Updated   string     `json:"updated"`
	Stats     diff.Stats `json:"stats"`
}

// statusRequest addresses one difference by its identity pair.
type statusRequest struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Status string `json:"status"`
}

// handleCompare reads both uploaded files in full, opens a comparison
// session, and returns its ID with the initial stats. Both reads must
// complete before parsing begins; the differ needs both tables.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Compare.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+4096)

	if err := r.ParseMultipartForm(2 * maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "files too large or invalid form")
		return
	}

	originalName, originalText, err := readFormFile(r, "original", maxSize)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updatedName, updatedText, err := readFormFile(r, "updated", maxSize)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, stats := s.service.Compare(r.Context(), originalName, updatedName, originalText, updatedText)

	writeJSON(w, compareResponse{
		SessionID: sess.ID,
		Original:  sess.OriginalName,
		Updated:   sess.UpdatedName,
		Stats:     stats,
	})
}

// readFormFile extracts one named file from the multipart form.
func readFormFile(r *http.Request, field string, maxSize int64) (string, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("missing %q file", field)
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", "", fmt.Errorf("%q exceeds the %d byte limit", field, maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", "", fmt.Errorf("reading %q: %w", field, err)
	}
	if int64(len(data)) > maxSize {
		return "", "", fmt.Errorf("%q exceeds the %d byte limit", field, maxSize)
	}

	return filepath.Base(header.Filename), string(data), nil
}

// handleDifferences returns the session's difference list, filtered by the
// kind, status, and q query parameters.
func (s *Server) handleDifferences(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	kind, ok := diff.ParseKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid kind filter")
		return
	}
	status, ok := diff.ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid status filter")
		return
	}
	search := r.URL.Query().Get("q")

	diffs, err := s.service.Differences(sessionID, kind, status, search)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"differences": diffs,
		"count":       len(diffs),
	})
}

// handleStats returns aggregate counts over the full difference set.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// handleSetStatus records a decision for a single difference.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	status, ok := diff.ParseStatus(req.Status)
	if !ok || status == diff.StatusAny {
		writeError(w, r, http.StatusBadRequest, "status must be pending, accepted, or rejected")
		return
	}

	if err := s.service.SetStatus(sessionID, req.Row, req.Column, status); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	stats, err := s.service.Stats(sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	s.bulkDecision(w, r, diff.StatusAccepted)
}

func (s *Server) handleRejectAll(w http.ResponseWriter, r *http.Request) {
	s.bulkDecision(w, r, diff.StatusRejected)
}

func (s *Server) handleResetDecisions(w http.ResponseWriter, r *http.Request) {
	s.bulkDecision(w, r, diff.StatusPending)
}

func (s *Server) bulkDecision(w http.ResponseWriter, r *http.Request, status diff.Status) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.service.SetAll(sessionID, status); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	stats, err := s.service.Stats(sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// handleResult applies the accepted differences and streams the corrected
// table as a CSV attachment.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	out, err := s.service.Result(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("corrected_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write([]byte(out))

	logging.FromContext(r.Context()).Info("corrected table downloaded",
		"session_id", sessionID,
		"bytes", len(out),
	)
}

// handleCloseSession discards a session and its decision state.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.service.Close(sessionID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "closed"})
}

// handleHistory returns recent comparison run summaries when a history
// database is configured.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.service.RecentRuns(r.Context(), limit)
	if err != nil {
		if errors.Is(err, core.ErrHistoryDisabled) {
			writeError(w, r, http.StatusNotFound, "run history is not configured")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load run history")
		return
	}

	writeJSON(w, map[string]any{"runs": runs, "count": len(runs)})
}

// handleHealth reports liveness and the live session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"history":  s.service.HistoryEnabled(),
	})
}

// respondServiceError maps service errors to HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrSessionNotFound) {
		writeError(w, r, http.StatusNotFound, "comparison session not found")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
