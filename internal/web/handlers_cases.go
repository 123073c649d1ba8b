package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/store"
)

// handleListCases returns committed cases with optional category,
// priority, and search filters.
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, total, err := s.store.ListCases(r.Context(), store.CaseFilter{
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
		Limit:    parseIntParam(r, "limit", 50),
		Offset:   parseIntParam(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []store.Case{}
	}
	writeJSON(w, map[string]any{
		"cases": result,
		"total": total,
	})
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, errors.New("case not found"), http.StatusNotFound)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, c)
}

// handleCaseAuditLog returns the audit trail for one case, keyed by its
// business case_id.
func (s *Server) handleCaseAuditLog(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, errors.New("case not found"), http.StatusNotFound)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	entries, err := s.store.ListAuditLogByCase(r.Context(), c.CaseID)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.AuditLogEntry{}
	}
	writeJSON(w, map[string]any{"auditLog": entries})
}
