package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/ports/secondary"
	"gitlab.com/graderelay.net/internal/domain"
	"gitlab.com/graderelay.net/internal/static/errs"
)

var _ IIntakeService = (*IntakeService)(nil)

// IntakeService implements the IntakeService interface
type IntakeService struct {
	submissionRepo secondary.SubmissionRepository
	languageRepo   secondary.LanguageRepository
	jobQueue       secondary.JobQueue
	logger         primary.Logger
	storeTimeout   time.Duration
	publishTimeout time.Duration
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	submissionRepo secondary.SubmissionRepository,
	languageRepo secondary.LanguageRepository,
	jobQueue secondary.JobQueue,
	logger primary.Logger,
	storeTimeout time.Duration,
	publishTimeout time.Duration,
) *IntakeService {
	return &IntakeService{
		submissionRepo: submissionRepo,
		languageRepo:   languageRepo,
		jobQueue:       jobQueue,
		logger:         logger,
		storeTimeout:   storeTimeout,
		publishTimeout: publishTimeout,
	}
}

// Accept turns a request into a persisted submission and a dispatched job.
// The submission row always exists before the job is built, so a dequeued
// job can never reference a missing owner. The enqueue outcome only feeds
// the Accepted flag; the submission stays durable either way and remains
// visible through List.
func (s *IntakeService) Accept(ctx context.Context, req *SubmissionRequest) (*domain.SubmissionResponse, error) {
	// Validate before any side effect
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	// Persist the submission; failure here is reported to the caller and
	// no job is ever constructed
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	submission := &domain.Submission{
		Lang:        req.Lang,
		StartTime:   time.Now(),
		CallbackURL: req.CallbackURL,
	}
	submissionID, err := s.submissionRepo.CreateSubmission(storeCtx, submission)
	if err != nil {
		s.logger.Error("Failed to create submission", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.SubmissionRejected, err)
	}

	s.logger.Info("Submission created", "submissionId", submissionID, "lang", req.Lang)

	// Build the job from the persisted submission and publish it. No local
	// retry: a refused publish degrades to accepted=false and the record
	// can be reconciled later.
	job := domain.NewJob(submissionID, req.Source, req.Lang, req.TestCases, req.GetStdout, req.CallbackURL)

	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	accepted, err := s.jobQueue.Publish(publishCtx, job)
	if err != nil {
		s.logger.Warn("Job publish failed, submission kept for reconciliation",
			"submissionId", submissionID, "error", err)
		accepted = false
	}

	return &domain.SubmissionResponse{
		ID:          submissionID,
		Accepted:    accepted,
		CallbackURL: req.CallbackURL,
	}, nil
}

// List retrieves all submissions from the store
func (s *IntakeService) List(ctx context.Context) ([]*domain.Submission, error) {
	submissions, err := s.submissionRepo.ListSubmissions(ctx)
	if err != nil {
		s.logger.Error("Failed to list submissions", "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// Get retrieves a submission by ID
func (s *IntakeService) Get(ctx context.Context, submissionID int64) (*domain.Submission, error) {
	submission, err := s.submissionRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// Languages retrieves the language registry
func (s *IntakeService) Languages(ctx context.Context) ([]*domain.Language, error) {
	languages, err := s.languageRepo.ListLanguages(ctx)
	if err != nil {
		s.logger.Error("Failed to list languages", "error", err)
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// validate checks the request shape and the language slug against the
// registry
func (s *IntakeService) validate(ctx context.Context, req *SubmissionRequest) error {
	if req.Source == "" {
		return &ValidationError{Err: errs.SourceRequired}
	}
	if strings.ContainsAny(req.Source, " \t\r\n") {
		return &ValidationError{Err: errs.SourceInvalid}
	}
	if len(req.TestCases) == 0 {
		return &ValidationError{Err: errs.TestCasesRequired}
	}
	if req.CallbackURL == "" {
		return &ValidationError{Err: errs.CallbackURLRequired}
	}
	parsed, err := url.Parse(req.CallbackURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ValidationError{Err: errs.CallbackURLInvalid}
	}

	lang, err := s.languageRepo.GetLanguage(ctx, req.Lang)
	if err != nil {
		return fmt.Errorf("failed to validate language: %w", err)
	}
	if lang == nil {
		return &ValidationError{Err: fmt.Errorf("%w: '%s'", errs.UnknownLanguage, req.Lang)}
	}

	return nil
}
