// package submissionrepository contains the PostgreSQL implementation of the submission store
package submissionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/domain"
	querybuilder "gitlab.com/graderelay.net/internal/utils"
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS submissions (
		id BIGSERIAL PRIMARY KEY,
		lang TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		callback_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		results JSONB,
		completed_at TIMESTAMPTZ
	)
`

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// EnsureSchema creates the submissions table if it does not exist
func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		r.logger.Error("Failed to ensure submissions schema", "error", err)
		return fmt.Errorf("failed to ensure submissions schema: %w", err)
	}
	return nil
}

// CreateSubmission persists a new submission and returns the ID assigned by
// the database sequence
func (r *SubmissionRepository) CreateSubmission(ctx context.Context, submission *domain.Submission) (int64, error) {
	query := `
		INSERT INTO submissions (lang, start_time, callback_url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		submission.Lang,
		submission.StartTime,
		submission.CallbackURL,
		domain.SubmissionStatusPending,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to create submission", "error", err)
		return 0, fmt.Errorf("failed to create submission: %w", err)
	}

	submission.ID = id
	submission.Status = domain.SubmissionStatusPending
	return id, nil
}

// GetSubmission retrieves a submission from PostgreSQL by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, submissionID int64) (*domain.Submission, error) {
	query := `
		SELECT id, lang, start_time, callback_url, status, results, completed_at
		FROM submissions
		WHERE id = $1
	`

	submission, err := r.scanSubmission(r.db.QueryRowContext(ctx, query, submissionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// ListSubmissions retrieves all submissions in insertion order
func (r *SubmissionRepository) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.Lang, tbl.StartTime, tbl.CallbackURL, tbl.Status, tbl.Results, tbl.CompletedAt).
		From(tbl.TableName()).
		OrderBy(tbl.ID, true).
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list submissions", "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*domain.Submission, 0)
	for rows.Next() {
		submission, err := r.scanSubmission(rows)
		if err != nil {
			r.logger.Error("Failed to scan submission row", "error", err)
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating submission rows", "error", err)
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}

	return submissions, nil
}

// RecordVerdict writes the judging results. The update is conditional on
// the submission still being PENDING, so a redelivered job cannot
// overwrite an already recorded verdict.
func (r *SubmissionRepository) RecordVerdict(ctx context.Context, submissionID int64, results []domain.TestResult) (bool, error) {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		r.logger.Error("Failed to marshal results", "submissionId", submissionID, "error", err)
		return false, fmt.Errorf("failed to marshal results: %w", err)
	}

	query := `
		UPDATE submissions
		SET status = $1, results = $2, completed_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		domain.SubmissionStatusJudged,
		resultsJSON,
		submissionID,
		domain.SubmissionStatusPending,
	)
	if err != nil {
		r.logger.Error("Failed to record verdict", "submissionId", submissionID, "error", err)
		return false, fmt.Errorf("failed to record verdict: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Error checking rows affected", "error", err)
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// MarkDelivered records a confirmed callback delivery
func (r *SubmissionRepository) MarkDelivered(ctx context.Context, submissionID int64) error {
	return r.transition(ctx, submissionID, domain.SubmissionStatusJudged, domain.SubmissionStatusDelivered)
}

// MarkDeliveryFailed records exhausted callback delivery
func (r *SubmissionRepository) MarkDeliveryFailed(ctx context.Context, submissionID int64) error {
	return r.transition(ctx, submissionID, domain.SubmissionStatusJudged, domain.SubmissionStatusDeliveryFailed)
}

// transition moves a submission between states. A zero row count is not an
// error: another attempt already performed the transition.
func (r *SubmissionRepository) transition(ctx context.Context, submissionID int64, from, to domain.SubmissionStatus) error {
	query := `
		UPDATE submissions
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	_, err := r.db.ExecContext(ctx, query, to, submissionID, from)
	if err != nil {
		r.logger.Error("Failed to update submission status",
			"submissionId", submissionID, "to", to, "error", err)
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SubmissionRepository) scanSubmission(row rowScanner) (*domain.Submission, error) {
	var submission domain.Submission
	var resultsJSON []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&submission.ID,
		&submission.Lang,
		&submission.StartTime,
		&submission.CallbackURL,
		&submission.Status,
		&resultsJSON,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		submission.CompletedAt = &completedAt.Time
	}

	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &submission.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}

	return &submission, nil
}
