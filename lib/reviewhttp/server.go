// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package reviewhttp serves the review API over HTTP: the two toggle
// endpoints the UI depends on, answer editing, pair listing, and
// aggregate statistics. Toggle semantics are flip-and-return: each
// call flips one flag, clears the opposite flag, and reports the new
// value as ground truth.
package reviewhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mfmax/QA2/lib/qapair"
	"github.com/mfmax/QA2/lib/qastore"
)

// Server exposes a qastore.Store over HTTP.
type Server struct {
	store  *qastore.Store
	logger *slog.Logger
}

// NewServer creates a Server. A nil logger discards request logs.
func NewServer(store *qastore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{store: store, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/toggle_audit/{id}", s.handleToggleAudit)
	mux.HandleFunc("POST /api/toggle_irrelevant/{id}", s.handleToggleIrrelevant)
	mux.HandleFunc("POST /api/update_answer/{id}", s.handleUpdateAnswer)
	mux.HandleFunc("GET /api/pairs", s.handlePairs)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// pairID parses the {id} path segment. Writes the error response
// itself and returns ok=false on malformed input.
func pairID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid pair id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleToggleAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := pairID(w, r)
	if !ok {
		return
	}
	audited, err := s.store.ToggleAudit(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, "toggle_audit", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_audited": audited})
}

func (s *Server) handleToggleIrrelevant(w http.ResponseWriter, r *http.Request) {
	id, ok := pairID(w, r)
	if !ok {
		return
	}
	irrelevant, err := s.store.ToggleIrrelevant(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, "toggle_irrelevant", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "is_irrelevant": irrelevant})
}

func (s *Server) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pairID(w, r)
	if !ok {
		return
	}
	var request struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer must not be empty")
		return
	}
	if err := s.store.UpdateAnswer(r.Context(), id, request.Answer); err != nil {
		s.writeStoreError(w, "update_answer", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"answer":        request.Answer,
		"is_audited":    true,
		"is_irrelevant": false,
	})
}

func (s *Server) writeStoreError(w http.ResponseWriter, operation string, id int64, err error) {
	if errors.Is(err, qastore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "pair not found")
		return
	}
	s.logger.Error("store operation failed", "operation", operation, "pair_id", id, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// PairPayload is the wire form of a pair.
type PairPayload struct {
	ID           int64    `json:"id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Direction    string   `json:"direction"`
	QuestionType string   `json:"question_type"`
	Keywords     []string `json:"keywords,omitempty"`
	IsAudited    bool     `json:"is_audited"`
	IsIrrelevant bool     `json:"is_irrelevant"`
	Source       string   `json:"source"`
}

// PairsResponse is the payload of GET /api/pairs.
type PairsResponse struct {
	Pairs []PairPayload `json:"pairs"`
	Total int           `json:"total"`
}

func toPayload(pair qapair.Pair) PairPayload {
	return PairPayload{
		ID:           pair.ID,
		Question:     pair.Question,
		Answer:       pair.Answer,
		Direction:    pair.Direction,
		QuestionType: pair.QuestionType,
		Keywords:     pair.Keywords,
		IsAudited:    pair.Classification == qapair.Audited,
		IsIrrelevant: pair.Classification == qapair.Irrelevant,
		Source:       pair.Source,
	}
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := qastore.Filter{
		Search:       query.Get("search"),
		Direction:    query.Get("direction"),
		QuestionType: query.Get("type"),
		Audit:        query.Get("audit"),
		Source:       query.Get("source"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(query.Get("per_page")); err == nil {
		filter.PerPage = perPage
	}

	pairs, total, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing pairs failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response := PairsResponse{Pairs: make([]PairPayload, 0, len(pairs)), Total: total}
	for _, pair := range pairs {
		response.Pairs = append(response.Pairs, toPayload(pair))
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.logger.Error("statistics failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_pairs":      stats.TotalPairs,
		"audited_count":    stats.AuditedCount,
		"irrelevant_count": stats.IrrelevantCount,
		"by_direction":     stats.ByDirection,
		"by_source":        stats.BySource,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
