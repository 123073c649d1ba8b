// Package store defines the case store collaborator: the durable home of
// cases, import jobs, and audit log entries. Two implementations exist, an
// in-memory store for tests and small deployments and a PostgreSQL store
// for production. Each operation is atomic and independently consistent;
// the case_id uniqueness constraint enforced here is the final authority
// on duplicates, not the pipeline's pre-check.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateCase is returned when a case with the same case_id already
// exists. Both implementations return it for insert-time conflicts, so the
// committer can fold races into the same rejected outcome as its pre-check.
var ErrDuplicateCase = errors.New("case_id already exists")

// Case is a committed case record.
type Case struct {
	ID            string    `json:"id"`
	CaseID        string    `json:"caseId"`
	ApplicantName string    `json:"applicantName"`
	DOB           time.Time `json:"dob"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	ImportJobID   string    `json:"importJobId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateCaseParams carries the fields for a new case.
type CreateCaseParams struct {
	CaseID        string
	ApplicantName string
	DOB           time.Time
	Email         string
	Phone         string
	Category      string
	Priority      string
	ImportJobID   string
}

// ImportJob tracks one batch commit attempt. It is created once before any
// row is written and updated exactly once at the end with final counts.
type ImportJob struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actorId"`
	FileName    string    `json:"fileName"`
	TotalRows   int       `json:"totalRows"`
	SuccessRows int       `json:"successRows"`
	FailedRows  int       `json:"failedRows"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateImportJobParams carries the fields for a new import job.
type CreateImportJobParams struct {
	ActorID   string
	FileName  string
	TotalRows int
	Status    string
}

// UpdateImportJobParams carries the terminal counts for an import job.
type UpdateImportJobParams struct {
	ID          string
	SuccessRows int
	FailedRows  int
	Status      string
}

// AuditLogEntry links an actor to an action on a case. One entry is
// written per successfully imported case.
type AuditLogEntry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	CaseID    string    `json:"caseId"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAuditLogParams carries the fields for a new audit entry.
type CreateAuditLogParams struct {
	ActorID string
	CaseID  string
	Action  string
	Details string
}

// CaseFilter narrows ListCases. Zero values mean no constraint.
type CaseFilter struct {
	Category string
	Priority string
	Search   string // matched against case_id and applicant name
	Limit    int
	Offset   int
}

// ImportJobFilter narrows ListImportJobs.
type ImportJobFilter struct {
	ActorID string
	Limit   int
}

// Store is the full case store contract consumed by the import pipeline
// and the read-side handlers.
type Store interface {
	// CreateCase inserts a case, returning ErrDuplicateCase when the
	// case_id is already taken.
	CreateCase(ctx context.Context, params CreateCaseParams) (Case, error)
	// FindCaseByCaseID looks a case up by its business identifier,
	// returning ErrNotFound when absent.
	FindCaseByCaseID(ctx context.Context, caseID string) (Case, error)
	GetCase(ctx context.Context, id string) (Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]Case, int, error)

	CreateImportJob(ctx context.Context, params CreateImportJobParams) (ImportJob, error)
	UpdateImportJob(ctx context.Context, params UpdateImportJobParams) (ImportJob, error)
	GetImportJob(ctx context.Context, id string) (ImportJob, error)
	ListImportJobs(ctx context.Context, filter ImportJobFilter) ([]ImportJob, error)

	CreateAuditLogEntry(ctx context.Context, params CreateAuditLogParams) (AuditLogEntry, error)
	ListAuditLogByCase(ctx context.Context, caseID string) ([]AuditLogEntry, error)
}
