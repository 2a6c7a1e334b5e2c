package intake

import (
	"context"

	"gitlab.com/graderelay.net/internal/domain"
)

// SubmissionRequest is a validated-shape submission as handed in by the
// transport layer.
type SubmissionRequest struct {
	Source      string
	Lang        string
	TestCases   []domain.TestCase
	GetStdout   bool
	CallbackURL string
}

// IIntakeService defines the interface for the submission lifecycle
type IIntakeService interface {
	// Accept validates the request, persists a submission, publishes the
	// judging job and reports the enqueue outcome
	Accept(ctx context.Context, req *SubmissionRequest) (*domain.SubmissionResponse, error)

	// List retrieves all submissions
	List(ctx context.Context) ([]*domain.Submission, error)

	// Get retrieves a submission by ID
	Get(ctx context.Context, submissionID int64) (*domain.Submission, error)

	// Languages retrieves the language registry
	Languages(ctx context.Context) ([]*domain.Language, error)
}

// ValidationError marks a rejected request; no side effect happened.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
