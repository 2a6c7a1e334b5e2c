// package judge contains the worker-side consume loop: dequeue a job,
// execute its testcases, record the verdict and deliver the callback.
package judge

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/ports/secondary"
	"gitlab.com/graderelay.net/internal/core/services/callback"
	"gitlab.com/graderelay.net/internal/domain"
)

// Runner consumes judging jobs and drives them to a terminal state.
// Execution is skipped when results are already recorded (a redelivered
// job only re-runs callback delivery), which keeps the whole pipeline
// at-least-once without double judging.
type Runner struct {
	jobQueue       secondary.JobQueue
	submissionRepo secondary.SubmissionRepository
	executor       secondary.CodeExecutor
	delivery       callback.IDeliveryService
	logger         primary.Logger
	inFlight       int32
}

// NewRunner creates a new judge runner
func NewRunner(
	jobQueue secondary.JobQueue,
	submissionRepo secondary.SubmissionRepository,
	executor secondary.CodeExecutor,
	delivery callback.IDeliveryService,
	logger primary.Logger,
) *Runner {
	return &Runner{
		jobQueue:       jobQueue,
		submissionRepo: submissionRepo,
		executor:       executor,
		delivery:       delivery,
		logger:         logger,
	}
}

// Load reports the number of jobs currently being processed
func (r *Runner) Load() int {
	return int(atomic.LoadInt32(&r.inFlight))
}

// Run consumes jobs until the context is cancelled
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("Judge runner started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Judge runner stopped")
			return
		default:
		}

		job, err := r.jobQueue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			r.logger.Error("Failed to consume job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			// Pop timeout elapsed with an empty queue
			continue
		}

		atomic.AddInt32(&r.inFlight, 1)
		r.Process(ctx, job)
		atomic.AddInt32(&r.inFlight, -1)
	}
}

// Process drives a single job to completion. The job is only acked after
// the submission reached a terminal state; on transient store failures it
// stays leased and is redelivered after a restart.
func (r *Runner) Process(ctx context.Context, job *domain.Job) {
	submission, err := r.submissionRepo.GetSubmission(ctx, job.ID)
	if err != nil {
		r.logger.Error("Failed to load submission for job", "jobId", job.ID, "error", err)
		return
	}
	if submission == nil {
		// No backing record; nothing to judge and nobody to notify
		r.logger.Error("Dequeued job without a submission record", "jobId", job.ID)
		r.ack(ctx, job)
		return
	}

	switch submission.Status {
	case domain.SubmissionStatusDelivered, domain.SubmissionStatusDeliveryFailed:
		// Already terminal, this is a leftover redelivery
		r.ack(ctx, job)
		return
	case domain.SubmissionStatusJudged:
		// Results exist; only the callback is outstanding
		r.deliver(ctx, job, submission.Results)
		r.ack(ctx, job)
		return
	}

	results := r.judge(ctx, job)

	applied, err := r.submissionRepo.RecordVerdict(ctx, job.ID, results)
	if err != nil {
		r.logger.Error("Failed to record verdict", "jobId", job.ID, "error", err)
		return
	}
	if !applied {
		// A concurrent attempt recorded first; use its results
		submission, err = r.submissionRepo.GetSubmission(ctx, job.ID)
		if err != nil || submission == nil {
			r.logger.Error("Failed to reload judged submission", "jobId", job.ID, "error", err)
			return
		}
		results = submission.Results
	}

	r.deliver(ctx, job, results)
	r.ack(ctx, job)
}

// judge executes every testcase in order and builds the result list in the
// same order, so the caller can correlate results positionally.
func (r *Runner) judge(ctx context.Context, job *domain.Job) []domain.TestResult {
	results := make([]domain.TestResult, 0, len(job.TestCases))

	for i, testCase := range job.TestCases {
		output, err := r.executor.Execute(ctx, job.Source, job.Lang, testCase.Input)
		if err != nil {
			r.logger.Error("Executor failed", "jobId", job.ID, "testcase", i, "error", err)
			results = append(results, domain.TestResult{StatusCode: domain.StatusCodeInternalError})
			continue
		}

		results = append(results, buildResult(job, testCase, output))
	}

	return results
}

func buildResult(job *domain.Job, testCase domain.TestCase, output *secondary.ExecutionOutput) domain.TestResult {
	result := domain.TestResult{}

	switch output.Status {
	case secondary.ExecutionStatusCompilationError:
		result.StatusCode = domain.StatusCodeCompilationError
	case secondary.ExecutionStatusTimeout:
		result.StatusCode = domain.StatusCodeTimeout
	case secondary.ExecutionStatusRuntimeError:
		result.StatusCode = domain.StatusCodeRuntimeError
	case secondary.ExecutionStatusOK:
		if strings.TrimRight(output.Stdout, "\n") == strings.TrimRight(testCase.Output, "\n") {
			result.StatusCode = domain.StatusCodeAccepted
		} else {
			result.StatusCode = domain.StatusCodeWrongAnswer
		}
	default:
		result.StatusCode = domain.StatusCodeInternalError
	}

	if job.GetStdout {
		stdout, stderr := output.Stdout, output.Stderr
		result.Stdout = &stdout
		result.Stderr = &stderr
	}

	return result
}

// deliver runs the callback protocol and records the terminal state
func (r *Runner) deliver(ctx context.Context, job *domain.Job, results []domain.TestResult) {
	payload := &domain.CallbackPayload{
		ID:      job.ID,
		Results: results,
	}

	if err := r.delivery.Deliver(ctx, job.CallbackURL, payload); err != nil {
		r.logger.Error("Recording delivery failure", "jobId", job.ID, "error", err)
		if err := r.submissionRepo.MarkDeliveryFailed(ctx, job.ID); err != nil {
			r.logger.Error("Failed to mark delivery failed", "jobId", job.ID, "error", err)
		}
		return
	}

	if err := r.submissionRepo.MarkDelivered(ctx, job.ID); err != nil {
		r.logger.Error("Failed to mark delivered", "jobId", job.ID, "error", err)
	}
}

func (r *Runner) ack(ctx context.Context, job *domain.Job) {
	if err := r.jobQueue.Ack(ctx, job); err != nil {
		r.logger.Error("Failed to ack job", "jobId", job.ID, "error", err)
	}
}
