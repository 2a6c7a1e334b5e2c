package secondary

import (
	"context"

	"gitlab.com/graderelay.net/internal/domain"
)

// SubmissionRepository defines the durable store of submissions
type SubmissionRepository interface {
	// CreateSubmission persists a new submission and returns its assigned ID
	CreateSubmission(ctx context.Context, submission *domain.Submission) (int64, error)

	// GetSubmission retrieves a submission by ID, nil when not found
	GetSubmission(ctx context.Context, submissionID int64) (*domain.Submission, error)

	// ListSubmissions retrieves all submissions in insertion order
	ListSubmissions(ctx context.Context) ([]*domain.Submission, error)

	// RecordVerdict writes the judging results for a submission. The write
	// is conditional on the submission still being PENDING, so applying the
	// same verdict twice is equivalent to applying it once. It reports
	// whether this call performed the transition.
	RecordVerdict(ctx context.Context, submissionID int64, results []domain.TestResult) (bool, error)

	// MarkDelivered records a confirmed callback delivery. Conditional on
	// the JUDGED state; duplicate confirmations are no-ops.
	MarkDelivered(ctx context.Context, submissionID int64) error

	// MarkDeliveryFailed records exhausted callback delivery. Conditional on
	// the JUDGED state.
	MarkDeliveryFailed(ctx context.Context, submissionID int64) error
}

// LanguageRepository defines the language registry consumed by intake
type LanguageRepository interface {
	// GetLanguage retrieves a language by slug, nil when unknown
	GetLanguage(ctx context.Context, slug string) (*domain.Language, error)

	// ListLanguages retrieves all registered languages
	ListLanguages(ctx context.Context) ([]*domain.Language, error)

	// EnsureSeeded installs the fixed registry entries if missing
	EnsureSeeded(ctx context.Context) error
}
