// package jobqueue contains the Redis implementation of the judging job queue
package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/domain"
)

const (
	queueKey      = "jobs:queue"
	processingKey = "jobs:processing"
)

// JobQueue implements the JobQueue interface with a Redis reliable list.
// Publish pushes onto the queue list; Consume moves a job atomically into
// a processing list where it stays until acked, so a worker crash leaves
// the job redeliverable.
type JobQueue struct {
	redisClient *redis.Client
	logger      primary.Logger
	popTimeout  time.Duration
}

// NewJobQueue creates a new Redis job queue
func NewJobQueue(redisClient *redis.Client, logger primary.Logger, popTimeout time.Duration) *JobQueue {
	return &JobQueue{
		redisClient: redisClient,
		logger:      logger,
		popTimeout:  popTimeout,
	}
}

// Publish offers a job to the queue. True means the broker durably accepted
// the message; false with a non-nil error means it could not take it now.
func (q *JobQueue) Publish(ctx context.Context, job *domain.Job) (bool, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		q.logger.Error("Failed to marshal job", "jobId", job.ID, "error", err)
		return false, fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.redisClient.LPush(ctx, queueKey, jobJSON).Err(); err != nil {
		q.logger.Error("Failed to publish job", "jobId", job.ID, "error", err)
		return false, fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published", "jobId", job.ID)
	return true, nil
}

// Consume blocks up to the pop timeout for the next job and leases it to
// this consumer. A nil job with nil error means the timeout elapsed.
func (q *JobQueue) Consume(ctx context.Context) (*domain.Job, error) {
	jobJSON, err := q.redisClient.BRPopLPush(ctx, queueKey, processingKey, q.popTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		q.logger.Error("Failed to consume job", "error", err)
		return nil, fmt.Errorf("failed to consume job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal([]byte(jobJSON), &job); err != nil {
		q.logger.Error("Failed to unmarshal job", "error", err)
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// Ack removes a consumed job from the processing list
func (q *JobQueue) Ack(ctx context.Context, job *domain.Job) error {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.redisClient.LRem(ctx, processingKey, 1, jobJSON).Err(); err != nil {
		q.logger.Error("Failed to ack job", "jobId", job.ID, "error", err)
		return fmt.Errorf("failed to ack job: %w", err)
	}

	return nil
}

// Requeue moves any jobs stranded on the processing list back onto the
// queue. Called at worker startup to recover from a previous crash.
func (q *JobQueue) Requeue(ctx context.Context) error {
	for {
		jobJSON, err := q.redisClient.RPopLPush(ctx, processingKey, queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			q.logger.Error("Failed to requeue stranded job", "error", err)
			return fmt.Errorf("failed to requeue stranded job: %w", err)
		}
		q.logger.Warn("Requeued stranded job", "job", jobJSON)
	}
}
