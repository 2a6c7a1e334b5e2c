package worker

import (
	"context"

	"gitlab.com/graderelay.net/internal/domain"
)

// IWorkerRegistrationService defines the interface for worker registration
type IWorkerRegistrationService interface {
	// RegisterWorker registers a worker as a live consumer of the job queue
	RegisterWorker(ctx context.Context, workerInfo *domain.WorkerInfo) error

	// Heartbeat updates the worker's liveness and load
	Heartbeat(ctx context.Context, workerID string, load int) error

	// GetAllWorkers gets all registered workers
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)
}
