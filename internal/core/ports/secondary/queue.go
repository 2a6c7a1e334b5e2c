package secondary

import (
	"context"

	"gitlab.com/graderelay.net/internal/domain"
)

// JobQueue is the durable queue carrying judging jobs from intake to the
// worker pool.
type JobQueue interface {
	// Publish offers a job to the broker. True means the broker durably
	// accepted the message for delivery to exactly one consumer; false or
	// an error means it could not accept it at this time. Publish never
	// reports a job accepted and then drops it.
	Publish(ctx context.Context, job *domain.Job) (bool, error)

	// Consume blocks until a job is available and leases it to this
	// consumer. The job stays redeliverable until acked.
	Consume(ctx context.Context) (*domain.Job, error)

	// Ack releases a consumed job after processing finished.
	Ack(ctx context.Context, job *domain.Job) error
}
