package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// PostgresStore persists cases, import jobs, and audit entries in
// PostgreSQL. The unique index on cases.case_id is the authoritative
// duplicate gate; insert-time violations surface as ErrDuplicateCase.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connection pool in a PostgresStore.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateCase(ctx context.Context, params CreateCaseParams) (Case, error) {
	var c Case
	err := s.pool.QueryRow(ctx, `
		INSERT INTO cases (case_id, applicant_name, dob, email, phone, category, priority, import_job_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, '')::uuid)
		RETURNING id, case_id, applicant_name, dob, COALESCE(email, ''), COALESCE(phone, ''),
			category, priority, COALESCE(import_job_id::text, ''), created_at`,
		params.CaseID, params.ApplicantName, params.DOB, params.Email, params.Phone,
		params.Category, params.Priority, params.ImportJobID,
	).Scan(&c.ID, &c.CaseID, &c.ApplicantName, &c.DOB, &c.Email, &c.Phone,
		&c.Category, &c.Priority, &c.ImportJobID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Case{}, ErrDuplicateCase
		}
		return Case{}, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindCaseByCaseID(ctx context.Context, caseID string) (Case, error) {
	return s.scanCase(ctx, `WHERE case_id = $1`, caseID)
}

func (s *PostgresStore) GetCase(ctx context.Context, id string) (Case, error) {
	return s.scanCase(ctx, `WHERE id = $1::uuid`, id)
}

func (s *PostgresStore) scanCase(ctx context.Context, where string, arg any) (Case, error) {
	var c Case
	err := s.pool.QueryRow(ctx, `
		SELECT id, case_id, applicant_name, dob, COALESCE(email, ''), COALESCE(phone, ''),
			category, priority, COALESCE(import_job_id::text, ''), created_at
		FROM cases `+where, arg,
	).Scan(&c.ID, &c.CaseID, &c.ApplicantName, &c.DOB, &c.Email, &c.Phone,
		&c.Category, &c.Priority, &c.ImportJobID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Case{}, ErrNotFound
		}
		return Case{}, fmt.Errorf("find case: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCases(ctx context.Context, filter CaseFilter) ([]Case, int, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Priority != "" {
		add("priority = $%d", filter.Priority)
	}
	if filter.Search != "" {
		add("(case_id ILIKE $%d OR applicant_name ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cases: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, case_id, applicant_name, dob, COALESCE(email, ''), COALESCE(phone, ''),
			category, priority, COALESCE(import_job_id::text, ''), created_at
		FROM cases%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var result []Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.ID, &c.CaseID, &c.ApplicantName, &c.DOB, &c.Email, &c.Phone,
			&c.Category, &c.Priority, &c.ImportJobID, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan case: %w", err)
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (s *PostgresStore) CreateImportJob(ctx context.Context, params CreateImportJobParams) (ImportJob, error) {
	var job ImportJob
	err := s.pool.QueryRow(ctx, `
		INSERT INTO import_jobs (actor_id, file_name, total_rows, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, actor_id, file_name, total_rows, success_rows, failed_rows, status, created_at, updated_at`,
		params.ActorID, params.FileName, params.TotalRows, params.Status,
	).Scan(&job.ID, &job.ActorID, &job.FileName, &job.TotalRows, &job.SuccessRows,
		&job.FailedRows, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return ImportJob{}, fmt.Errorf("create import job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) UpdateImportJob(ctx context.Context, params UpdateImportJobParams) (ImportJob, error) {
	var job ImportJob
	err := s.pool.QueryRow(ctx, `
		UPDATE import_jobs
		SET success_rows = $2, failed_rows = $3, status = $4, updated_at = now()
		WHERE id = $1::uuid
		RETURNING id, actor_id, file_name, total_rows, success_rows, failed_rows, status, created_at, updated_at`,
		params.ID, params.SuccessRows, params.FailedRows, params.Status,
	).Scan(&job.ID, &job.ActorID, &job.FileName, &job.TotalRows, &job.SuccessRows,
		&job.FailedRows, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ImportJob{}, ErrNotFound
		}
		return ImportJob{}, fmt.Errorf("update import job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) GetImportJob(ctx context.Context, id string) (ImportJob, error) {
	var job ImportJob
	err := s.pool.QueryRow(ctx, `
		SELECT id, actor_id, file_name, total_rows, success_rows, failed_rows, status, created_at, updated_at
		FROM import_jobs WHERE id = $1::uuid`, id,
	).Scan(&job.ID, &job.ActorID, &job.FileName, &job.TotalRows, &job.SuccessRows,
		&job.FailedRows, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ImportJob{}, ErrNotFound
		}
		return ImportJob{}, fmt.Errorf("get import job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) ListImportJobs(ctx context.Context, filter ImportJobFilter) ([]ImportJob, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, actor_id, file_name, total_rows, success_rows, failed_rows, status, created_at, updated_at
		FROM import_jobs`
	args := []any{limit}
	if filter.ActorID != "" {
		query += ` WHERE actor_id = $2`
		args = append(args, filter.ActorID)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []ImportJob
	for rows.Next() {
		var job ImportJob
		if err := rows.Scan(&job.ID, &job.ActorID, &job.FileName, &job.TotalRows, &job.SuccessRows,
			&job.FailedRows, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan import job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) CreateAuditLogEntry(ctx context.Context, params CreateAuditLogParams) (AuditLogEntry, error) {
	var entry AuditLogEntry
	err := s.pool.QueryRow(ctx, `
		INSERT INTO audit_log (actor_id, case_id, action, details)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, actor_id, case_id, action, COALESCE(details, ''), created_at`,
		params.ActorID, params.CaseID, params.Action, params.Details,
	).Scan(&entry.ID, &entry.ActorID, &entry.CaseID, &entry.Action, &entry.Details, &entry.CreatedAt)
	if err != nil {
		return AuditLogEntry{}, fmt.Errorf("create audit log entry: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) ListAuditLogByCase(ctx context.Context, caseID string) ([]AuditLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, actor_id, case_id, action, COALESCE(details, ''), created_at
		FROM audit_log WHERE case_id = $1 ORDER BY created_at`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditLogEntry
	for rows.Next() {
		var e AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.CaseID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
