package secondary

import (
	"context"
	"time"

	"gitlab.com/graderelay.net/internal/domain"
)

// WorkerRepository tracks live judging workers
type WorkerRepository interface {
	// SaveWorker saves worker information
	SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error

	// GetWorker retrieves worker information by ID, nil when not found
	GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error)

	// GetAllWorkers retrieves all registered workers
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)

	// UpdateWorkerHeartbeat updates a worker's heartbeat and load
	UpdateWorkerHeartbeat(ctx context.Context, workerID string, load int, heartbeatTime time.Time) error
}
