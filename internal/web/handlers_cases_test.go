package web

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/caseflow/internal/store"
)

func seedCase(t *testing.T, st *store.MemoryStore, caseID, name, category, priority string) store.Case {
	t.Helper()
	c, err := st.CreateCase(context.Background(), store.CreateCaseParams{
		CaseID:        caseID,
		ApplicantName: name,
		DOB:           time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Category:      category,
		Priority:      priority,
	})
	require.NoError(t, err)
	return c
}

func TestListCases(t *testing.T) {
	s, st := newTestServer(t)
	seedCase(t, st, "C-001", "John Doe", "TAX", "HIGH")
	seedCase(t, st, "C-002", "Jane Roe", "PERMIT", "LOW")

	var resp struct {
		Cases []store.Case `json:"cases"`
		Total int          `json:"total"`
	}

	rec := doJSON(t, s, http.MethodGet, "/api/cases/", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Cases, 2)

	rec = doJSON(t, s, http.MethodGet, "/api/cases/?category=TAX", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Cases, 1)
	assert.Equal(t, "C-001", resp.Cases[0].CaseID)

	rec = doJSON(t, s, http.MethodGet, "/api/cases/?search=jane", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Cases, 1)
	assert.Equal(t, "C-002", resp.Cases[0].CaseID)

	rec = doJSON(t, s, http.MethodGet, "/api/cases/?category=LICENSE", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Cases, "empty result is an array, not null")
}

func TestGetCase(t *testing.T) {
	s, st := newTestServer(t)
	c := seedCase(t, st, "C-001", "John Doe", "TAX", "HIGH")

	var got store.Case
	rec := doJSON(t, s, http.MethodGet, "/api/cases/"+c.ID, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C-001", got.CaseID)

	rec = doJSON(t, s, http.MethodGet, "/api/cases/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCaseAuditLog(t *testing.T) {
	s, st := newTestServer(t)
	c := seedCase(t, st, "C-001", "John Doe", "TAX", "HIGH")

	_, err := st.CreateAuditLogEntry(context.Background(), store.CreateAuditLogParams{
		ActorID: "agent-1",
		CaseID:  c.CaseID,
		Action:  "import",
	})
	require.NoError(t, err)

	var resp struct {
		AuditLog []store.AuditLogEntry `json:"auditLog"`
	}
	rec := doJSON(t, s, http.MethodGet, "/api/cases/"+c.ID+"/audit", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.AuditLog, 1)
	assert.Equal(t, "agent-1", resp.AuditLog[0].ActorID)
	assert.Equal(t, "import", resp.AuditLog[0].Action)

	rec = doJSON(t, s, http.MethodGet, "/api/cases/missing/audit", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
