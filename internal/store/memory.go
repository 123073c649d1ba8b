package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-memory Store. It backs tests and the
// memory driver, and enforces the same case_id uniqueness the PostgreSQL
// store gets from its unique index.
type MemoryStore struct {
	mu        sync.RWMutex
	cases     map[string]Case // keyed by internal ID
	caseIDs   map[string]string
	jobs      map[string]ImportJob
	audit     []AuditLogEntry
	caseOrder []string
	jobOrder  []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases:   make(map[string]Case),
		caseIDs: make(map[string]string),
		jobs:    make(map[string]ImportJob),
	}
}

func (s *MemoryStore) CreateCase(_ context.Context, params CreateCaseParams) (Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.caseIDs[params.CaseID]; taken {
		return Case{}, ErrDuplicateCase
	}

	c := Case{
		ID:            uuid.NewString(),
		CaseID:        params.CaseID,
		ApplicantName: params.ApplicantName,
		DOB:           params.DOB,
		Email:         params.Email,
		Phone:         params.Phone,
		Category:      params.Category,
		Priority:      params.Priority,
		ImportJobID:   params.ImportJobID,
		CreatedAt:     time.Now().UTC(),
	}
	s.cases[c.ID] = c
	s.caseIDs[c.CaseID] = c.ID
	s.caseOrder = append(s.caseOrder, c.ID)
	return c, nil
}

func (s *MemoryStore) FindCaseByCaseID(_ context.Context, caseID string) (Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.caseIDs[caseID]
	if !ok {
		return Case{}, ErrNotFound
	}
	return s.cases[id], nil
}

func (s *MemoryStore) GetCase(_ context.Context, id string) (Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListCases(_ context.Context, filter CaseFilter) ([]Case, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Case
	for _, id := range s.caseOrder {
		c := s.cases[id]
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.CaseID), needle) &&
				!strings.Contains(strings.ToLower(c.ApplicantName), needle) {
				continue
			}
		}
		matched = append(matched, c)
	}

	total := len(matched)

	// Newest first, matching the postgres ORDER BY created_at DESC.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *MemoryStore) CreateImportJob(_ context.Context, params CreateImportJobParams) (ImportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	job := ImportJob{
		ID:        uuid.NewString(),
		ActorID:   params.ActorID,
		FileName:  params.FileName,
		TotalRows: params.TotalRows,
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	s.jobOrder = append(s.jobOrder, job.ID)
	return job, nil
}

func (s *MemoryStore) UpdateImportJob(_ context.Context, params UpdateImportJobParams) (ImportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[params.ID]
	if !ok {
		return ImportJob{}, ErrNotFound
	}
	job.SuccessRows = params.SuccessRows
	job.FailedRows = params.FailedRows
	job.Status = params.Status
	job.UpdatedAt = time.Now().UTC()
	s.jobs[params.ID] = job
	return job, nil
}

func (s *MemoryStore) GetImportJob(_ context.Context, id string) (ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return ImportJob{}, ErrNotFound
	}
	return job, nil
}

func (s *MemoryStore) ListImportJobs(_ context.Context, filter ImportJobFilter) ([]ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []ImportJob
	// Reverse insertion order: newest first.
	for i := len(s.jobOrder) - 1; i >= 0; i-- {
		job := s.jobs[s.jobOrder[i]]
		if filter.ActorID != "" && job.ActorID != filter.ActorID {
			continue
		}
		jobs = append(jobs, job)
		if filter.Limit > 0 && len(jobs) >= filter.Limit {
			break
		}
	}
	return jobs, nil
}

func (s *MemoryStore) CreateAuditLogEntry(_ context.Context, params CreateAuditLogParams) (AuditLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := AuditLogEntry{
		ID:        uuid.NewString(),
		ActorID:   params.ActorID,
		CaseID:    params.CaseID,
		Action:    params.Action,
		Details:   params.Details,
		CreatedAt: time.Now().UTC(),
	}
	s.audit = append(s.audit, entry)
	return entry, nil
}

func (s *MemoryStore) ListAuditLogByCase(_ context.Context, caseID string) ([]AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []AuditLogEntry
	for _, e := range s.audit {
		if e.CaseID == caseID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// AuditEntries returns a copy of every audit entry, oldest first.
// Intended for tests.
func (s *MemoryStore) AuditEntries() []AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AuditLogEntry(nil), s.audit...)
}
