package cases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caseflow/caseflow/internal/metrics"
	"github.com/caseflow/caseflow/internal/store"
)

const (
	// DefaultChunkSize is the number of rows attempted per chunk.
	DefaultChunkSize = 100
	// DefaultCommitWorkers caps in-flight store writes within a chunk so a
	// large chunk cannot overwhelm the store's connection capacity.
	DefaultCommitWorkers = 10

	// ImportAction is the audit log action recorded per committed case.
	ImportAction = "import"
	// JobStatusProcessing is the status an import job carries while rows
	// are being written.
	JobStatusProcessing = "processing"
	// JobStatusCompleted is the sole terminal status. Row failures are
	// expressed through the counts and the ledger, never through status.
	JobStatusCompleted = "completed"
)

// BatchCommitter writes staged rows to the case store in bounded
// concurrency chunks. Chunks run strictly in order; rows within a chunk
// run concurrently with no ordering guarantee relative to each other.
type BatchCommitter struct {
	store     store.Store
	metrics   *metrics.Metrics
	chunkSize int
	workers   int
}

// NewBatchCommitter creates a committer with the default chunk size and
// worker cap. Metrics may be nil.
func NewBatchCommitter(st store.Store, m *metrics.Metrics) *BatchCommitter {
	return &BatchCommitter{
		store:     st,
		metrics:   m,
		chunkSize: DefaultChunkSize,
		workers:   DefaultCommitWorkers,
	}
}

// WithChunkSize overrides the chunk size. Values below one are ignored.
func (c *BatchCommitter) WithChunkSize(n int) *BatchCommitter {
	if n > 0 {
		c.chunkSize = n
	}
	return c
}

// WithWorkers overrides the per-chunk concurrency cap. Values below one
// are ignored; the effective cap never exceeds the chunk size.
func (c *BatchCommitter) WithWorkers(n int) *BatchCommitter {
	if n > 0 {
		c.workers = n
	}
	return c
}

// Commit writes the submitted rows to the case store and returns a ledger
// accounting for every row exactly once.
//
// The rows are usually the valid subset of a staging set, but unvalidated
// rows are tolerated: every row is re-normalized and re-validated here,
// and rows failing that gate become Rejected entries rather than crashing
// the batch. Submitting zero rows fails with ErrEmptyBatch before any
// import job is created; once a job exists the operation as a whole does
// not fail, and per-row store errors degrade to Rejected entries.
//
// Cancellation is honored at chunk boundaries only. Rows in chunks never
// started are recorded as Rejected with the cancellation reason so the
// ledger and the job counts stay complete.
func (c *BatchCommitter) Commit(ctx context.Context, rows []ValidatedRow, fileName, actorID string) (*CommitResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	if fileName == "" {
		fileName = "unknown.csv"
	}

	job, err := c.store.CreateImportJob(ctx, store.CreateImportJobParams{
		ActorID:   actorID,
		FileName:  fileName,
		TotalRows: len(rows),
		Status:    JobStatusProcessing,
	})
	if err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}
	c.metrics.IncImportJobs()

	logger := slog.Default().With("import_job_id", job.ID, "file", fileName, "rows", len(rows))
	logger.Info("batch commit started")

	outcomes := make([]CommitOutcome, len(rows))

	for start := 0; start < len(rows); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := ctx.Err(); err != nil {
			// Cancelled between chunks: reject the remainder so the
			// ledger still accounts for every submitted row.
			for i := start; i < len(rows); i++ {
				outcomes[i] = rejected(rows[i], err.Error())
			}
			break
		}

		chunkStart := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		workers := c.workers
		if workers > end-start {
			workers = end - start
		}
		g.SetLimit(workers)

		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				outcomes[i] = c.commitRow(gctx, rows[i], job.ID, actorID)
				return nil
			})
		}
		// Workers never return errors; failures are contained per row.
		_ = g.Wait()
		c.metrics.ObserveChunk(time.Since(chunkStart))
	}

	summary := CommitSummary{Total: len(rows)}
	for _, o := range outcomes {
		if o.Committed {
			summary.Success++
		} else {
			summary.Failed++
		}
	}
	c.metrics.AddCommitted(summary.Success)
	c.metrics.AddRejected(summary.Failed)

	// The final counts must land even when the batch itself was cancelled;
	// the ledger rows above were already recorded under that cancellation.
	if _, err := c.store.UpdateImportJob(context.WithoutCancel(ctx), store.UpdateImportJobParams{
		ID:          job.ID,
		SuccessRows: summary.Success,
		FailedRows:  summary.Failed,
		Status:      JobStatusCompleted,
	}); err != nil {
		// The ledger is already complete; losing the final counts is worth
		// surfacing but not worth failing the batch for.
		logger.Error("failed to finalize import job", "error", err)
	}

	logger.Info("batch commit finished", "success", summary.Success, "failed", summary.Failed)

	return &CommitResult{
		ImportJobID: job.ID,
		Outcomes:    outcomes,
		Summary:     summary,
	}, nil
}

// commitRow attempts one row: normalize, validate, duplicate check, create
// case, write the audit entry. Every failure path returns a Rejected
// outcome; nothing escapes to abort the chunk.
func (c *BatchCommitter) commitRow(ctx context.Context, row ValidatedRow, jobID, actorID string) CommitOutcome {
	row.Fields = normalizeFields(row.Fields)

	if errs := Validate(row.Fields); len(errs) > 0 {
		return CommitOutcome{
			RowIndex: row.RowIndex,
			Fields:   row.Fields,
			Errors:   errs,
		}
	}

	// Pre-check gives a friendly duplicate error before paying for an
	// insert. The store's uniqueness constraint remains the true arbiter:
	// concurrent rows with the same case_id race here and at most one
	// actually wins the insert below.
	if _, err := c.store.FindCaseByCaseID(ctx, row.Fields.CaseID); err == nil {
		return rejected(row, "case_id already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return rejected(row, err.Error())
	}

	dob, err := time.Parse("2006-01-02", row.Fields.DOB)
	if err != nil {
		return rejected(row, "dob must be a valid ISO date (YYYY-MM-DD)")
	}

	priority := row.Fields.Priority
	if priority == "" {
		priority = string(PriorityLow)
	}

	created, err := c.store.CreateCase(ctx, store.CreateCaseParams{
		CaseID:        row.Fields.CaseID,
		ApplicantName: row.Fields.ApplicantName,
		DOB:           dob,
		Email:         row.Fields.Email,
		Phone:         row.Fields.Phone,
		Category:      row.Fields.Category,
		Priority:      priority,
		ImportJobID:   jobID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateCase) {
			// A uniqueness violation from the store is the same outcome as
			// the pre-check: someone else got there first.
			return rejected(row, "case_id already exists")
		}
		return rejected(row, err.Error())
	}

	if _, err := c.store.CreateAuditLogEntry(ctx, store.CreateAuditLogParams{
		ActorID: actorID,
		CaseID:  created.CaseID,
		Action:  ImportAction,
		Details: fmt.Sprintf(`{"importJobId":%q}`, jobID),
	}); err != nil {
		return rejected(row, err.Error())
	}

	return CommitOutcome{
		RowIndex:  row.RowIndex,
		Committed: true,
		CaseID:    created.CaseID,
		Fields:    row.Fields,
	}
}

func rejected(row ValidatedRow, reason string) CommitOutcome {
	return CommitOutcome{
		RowIndex: row.RowIndex,
		Fields:   row.Fields,
		Errors:   []string{reason},
	}
}

// normalizeFields re-applies canonical formatting to already-structured
// fields. It is idempotent, so rows arriving straight from the preview
// pipeline pass through unchanged.
func normalizeFields(f CaseFields) CaseFields {
	f.CaseID = strings.TrimSpace(f.CaseID)
	f.ApplicantName = strings.TrimSpace(f.ApplicantName)
	f.DOB = strings.TrimSpace(f.DOB)
	f.Email = strings.TrimSpace(f.Email)
	f.Category = strings.ToUpper(strings.TrimSpace(f.Category))
	f.Priority = strings.ToUpper(strings.TrimSpace(f.Priority))
	if phone := strings.TrimSpace(f.Phone); phone != "" {
		f.Phone = NormalizePhone(phone)
	} else {
		f.Phone = ""
	}
	return f
}
