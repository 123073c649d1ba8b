package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/cases"
	"github.com/caseflow/caseflow/internal/logging"
	"github.com/caseflow/caseflow/internal/store"
)

// uploadResponse is the preview returned after parsing an upload.
type uploadResponse struct {
	SessionID string               `json:"sessionId"`
	Rows      []cases.ValidatedRow `json:"rows"`
	TotalRows int                  `json:"totalRows"`
	Columns   []string             `json:"columns"`
}

// handleUpload parses a tabular file, validates every row, and stages the
// result in a new import session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, errors.New("file too large or invalid form"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isTabularUpload(header.Filename, header.Header.Get("Content-Type")) {
		respondError(w, r, errors.New("invalid csv: only delimited text uploads are accepted"), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	table, rows, err := cases.ParseAndValidate(data)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	set := cases.NewStagingSet(header.Filename, table.Columns, rows)
	sessionID := s.sessions.Create(set)
	s.metrics.ObserveUpload(len(data))

	logging.FromContext(r.Context()).Info("upload staged",
		"session_id", sessionID,
		"file", header.Filename,
		"rows", len(rows),
	)

	writeJSON(w, uploadResponse{
		SessionID: sessionID,
		Rows:      rows,
		TotalRows: len(rows),
		Columns:   table.Columns,
	})
}

// isTabularUpload accepts .csv file names and text content types.
func isTabularUpload(name, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return true
	}
	switch {
	case strings.HasPrefix(contentType, "text/csv"),
		strings.HasPrefix(contentType, "text/plain"),
		strings.HasPrefix(contentType, "application/csv"):
		return true
	}
	return false
}

// sessionResponse is the staged state of one import session.
type sessionResponse struct {
	SessionID string               `json:"sessionId"`
	FileName  string               `json:"fileName"`
	Rows      []cases.ValidatedRow `json:"rows"`
	TotalRows int                  `json:"totalRows"`
	Columns   []string             `json:"columns"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	set, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	rows := set.Rows()
	writeJSON(w, sessionResponse{
		SessionID: chi.URLParam(r, "sessionID"),
		FileName:  set.FileName(),
		Rows:      rows,
		TotalRows: len(rows),
		Columns:   set.Columns(),
	})
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Discard(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// bulkFixRequest names the transform to apply to the whole staged set.
type bulkFixRequest struct {
	Fix cases.FixKind `json:"fix"`
}

// handleBulkFix applies one named transform to every staged row and
// returns the re-validated set.
func (s *Server) handleBulkFix(w http.ResponseWriter, r *http.Request) {
	set, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req bulkFixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rows, err := set.ApplyFix(req.Fix)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, sessionResponse{
		SessionID: chi.URLParam(r, "sessionID"),
		FileName:  set.FileName(),
		Rows:      rows,
		TotalRows: len(rows),
		Columns:   set.Columns(),
	})
}

// handleEditRow replaces fields on one staged row and re-validates it.
func (s *Server) handleEditRow(w http.ResponseWriter, r *http.Request) {
	set, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	rowIndex, err := strconv.Atoi(chi.URLParam(r, "rowIndex"))
	if err != nil {
		respondError(w, r, errors.New("invalid row index"), http.StatusBadRequest)
		return
	}

	var edit cases.FieldEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	row, err := set.EditRow(rowIndex, edit)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, row)
}

// batchCommitRequest submits rows for commit, either by staging session
// or as an explicit row list.
type batchCommitRequest struct {
	SessionID string               `json:"sessionId,omitempty"`
	Rows      []cases.ValidatedRow `json:"rows,omitempty"`
	FileName  string               `json:"fileName,omitempty"`
}

type batchCommitResponse struct {
	ImportJobID string              `json:"importJobId"`
	Results     batchCommitResults  `json:"results"`
	Summary     cases.CommitSummary `json:"summary"`
}

type batchCommitResults struct {
	Success []committedRow `json:"success"`
	Failed  []rejectedRow  `json:"failed"`
}

type committedRow struct {
	RowIndex int    `json:"rowIndex"`
	CaseID   string `json:"caseId"`
}

type rejectedRow struct {
	RowIndex int              `json:"rowIndex"`
	Data     cases.CaseFields `json:"data"`
	Errors   []string         `json:"errors"`
}

// handleBatchCommit commits the submitted rows to the case store and
// returns the per-row ledger plus summary counts.
func (s *Server) handleBatchCommit(w http.ResponseWriter, r *http.Request) {
	var req batchCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rows := req.Rows
	fileName := req.FileName

	if req.SessionID != "" {
		set, err := s.sessions.Get(req.SessionID)
		if err != nil {
			respondError(w, r, err, http.StatusNotFound)
			return
		}
		// Only the currently-valid subset is committed from a session;
		// invalid rows stay staged for correction.
		rows = set.Valid()
		if fileName == "" {
			fileName = set.FileName()
		}
	}

	ctx := withRequestActor(r.Context(), r)
	result, err := s.committer.Commit(ctx, rows, fileName, ActorFromContext(ctx))
	if err != nil {
		if errors.Is(err, cases.ErrEmptyBatch) {
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if req.SessionID != "" {
		s.sessions.Discard(req.SessionID)
	}

	resp := batchCommitResponse{
		ImportJobID: result.ImportJobID,
		Summary:     result.Summary,
		Results: batchCommitResults{
			Success: []committedRow{},
			Failed:  []rejectedRow{},
		},
	}
	for _, o := range result.Outcomes {
		if o.Committed {
			resp.Results.Success = append(resp.Results.Success, committedRow{
				RowIndex: o.RowIndex,
				CaseID:   o.CaseID,
			})
		} else {
			resp.Results.Failed = append(resp.Results.Failed, rejectedRow{
				RowIndex: o.RowIndex,
				Data:     o.Fields,
				Errors:   o.Errors,
			})
		}
	}

	writeJSON(w, resp)
}

func (s *Server) handleListImportJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	jobs, err := s.store.ListImportJobs(r.Context(), store.ImportJobFilter{
		ActorID: r.URL.Query().Get("actorId"),
		Limit:   limit,
	})
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []store.ImportJob{}
	}
	writeJSON(w, map[string]any{"importJobs": jobs})
}

func (s *Server) handleGetImportJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetImportJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, errors.New("import job not found"), http.StatusNotFound)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, job)
}

// lookupSession resolves the sessionID URL parameter, writing the error
// response itself when the session is gone.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*cases.StagingSet, bool) {
	set, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return nil, false
	}
	return set, true
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
