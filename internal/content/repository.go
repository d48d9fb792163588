package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/internal/shared"
)

// Repository is the persistence contract for jobs and drafts.
type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	CompleteJob(ctx context.Context, id string, result genai.GeneratedContent) (*Draft, error)
	RecordFailure(ctx context.Context, id string, reason string) error
	ListDrafts(ctx context.Context) ([]*Draft, error)
	GetDraft(ctx context.Context, id string) (*Draft, error)
	UpdateDraftStatus(ctx context.Context, id, status, reviewer, notes string) (*Draft, error)
}

// PGRepository stores jobs and drafts in Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateJob inserts a queued job row.
func (r *PGRepository) CreateJob(ctx context.Context, job *Job) error {
	request, err := json.Marshal(job.Request)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO content_jobs (id, status, request, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at`
	return r.pool.QueryRow(ctx, query, job.ID, job.Status, request).Scan(&job.CreatedAt)
}

// GetJob loads a queued job.
func (r *PGRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	query := `SELECT id, status, request, created_at FROM content_jobs WHERE id = $1`

	var job Job
	var request []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&job.ID, &job.Status, &request, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(request, &job.Request); err != nil {
		return nil, fmt.Errorf("decode job request: %w", err)
	}
	return &job, nil
}

// CompleteJob turns a job into a pending-review draft: inserts the draft
// and a generated-content copy, then removes the job row, all in one
// transaction.
func (r *PGRepository) CompleteJob(ctx context.Context, id string, result genai.GeneratedContent) (*Draft, error) {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	request, err := json.Marshal(job.Request)
	if err != nil {
		return nil, err
	}
	resultData, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	draft := Draft{ID: id, Status: StatusPendingReview, Request: job.Request, Result: result}
	err = tx.QueryRow(ctx, `
		INSERT INTO content_drafts (id, status, request, result, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`,
		id, StatusPendingReview, request, resultData,
	).Scan(&draft.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO content_generated (id, status, result, created_at)
		VALUES ($1, 'generated', $2, NOW())`,
		id, resultData)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM content_jobs WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &draft, nil
}

// RecordFailure writes a dead-letter row for a job whose retries are spent
// and removes the job itself.
func (r *PGRepository) RecordFailure(ctx context.Context, id string, reason string) error {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	request, err := json.Marshal(job.Request)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO content_job_errors (id, request, reason, failed_at, created_at)
		VALUES ($1, $2, $3, NOW(), $4)
		ON CONFLICT (id) DO UPDATE SET reason = EXCLUDED.reason, failed_at = NOW()`,
		id, request, reason, job.CreatedAt)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM content_jobs WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const draftColumns = `id, status, request, result, COALESCE(reviewed_by, ''), COALESCE(review_notes, ''), reviewed_at, created_at`

func scanDraft(row pgx.Row) (*Draft, error) {
	var d Draft
	var request, result []byte
	err := row.Scan(&d.ID, &d.Status, &request, &result, &d.ReviewedBy, &d.ReviewNotes, &d.ReviewedAt, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(request, &d.Request); err != nil {
		return nil, fmt.Errorf("decode draft request: %w", err)
	}
	if err := json.Unmarshal(result, &d.Result); err != nil {
		return nil, fmt.Errorf("decode draft result: %w", err)
	}
	return &d, nil
}

// ListDrafts returns all drafts, newest first.
func (r *PGRepository) ListDrafts(ctx context.Context) ([]*Draft, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+draftColumns+` FROM content_drafts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// GetDraft loads a single draft.
func (r *PGRepository) GetDraft(ctx context.Context, id string) (*Draft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM content_drafts WHERE id = $1`, id)
	return scanDraft(row)
}

// UpdateDraftStatus stamps status, reviewer, notes, and the review time in
// a single UPDATE, so concurrent reviews resolve to whichever statement
// ran last. Publishing also writes a published copy row.
func (r *PGRepository) UpdateDraftStatus(ctx context.Context, id, status, reviewer, notes string) (*Draft, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		UPDATE content_drafts
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = NOW()
		WHERE id = $1
		RETURNING `+draftColumns,
		id, status, reviewer, notes)
	draft, err := scanDraft(row)
	if err != nil {
		return nil, err
	}

	if status == StatusPublished {
		resultData, err := json.Marshal(draft.Result)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO content_published (id, result, published_by, published_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (id) DO UPDATE SET result = EXCLUDED.result, published_by = EXCLUDED.published_by, published_at = NOW()`,
			id, resultData, reviewer)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return draft, nil
}

// QueuedJobCount reports how many jobs are waiting in the store, used as a
// fallback depth signal when the queue inspector is unavailable.
func (r *PGRepository) QueuedJobCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM content_jobs`).Scan(&n)
	return n, err
}
