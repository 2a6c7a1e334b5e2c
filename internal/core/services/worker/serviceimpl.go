package worker

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/ports/secondary"
	"gitlab.com/graderelay.net/internal/domain"
)

var _ IWorkerRegistrationService = &WorkerRegistrationService{}

// WorkerRegistrationService implements the WorkerRegistrationService interface
type WorkerRegistrationService struct {
	workerRepo secondary.WorkerRepository
	logger     primary.Logger
}

// NewWorkerRegistrationService creates a new worker registration service
func NewWorkerRegistrationService(workerRepo secondary.WorkerRepository, logger primary.Logger) *WorkerRegistrationService {
	return &WorkerRegistrationService{
		workerRepo: workerRepo,
		logger:     logger,
	}
}

// RegisterWorker registers a worker as available for jobs
func (s *WorkerRegistrationService) RegisterWorker(ctx context.Context, workerInfo *domain.WorkerInfo) error {
	s.logger.Info("Registering worker", "workerId", workerInfo.ID, "hostname", workerInfo.Hostname)

	workerInfo.LastHeartbeat = time.Now()

	if err := s.workerRepo.SaveWorker(ctx, workerInfo); err != nil {
		s.logger.Error("Failed to save worker", "error", err)
		return fmt.Errorf("failed to register worker: %w", err)
	}

	return nil
}

// Heartbeat updates the worker's liveness and load
func (s *WorkerRegistrationService) Heartbeat(ctx context.Context, workerID string, load int) error {
	s.logger.Debug("Worker heartbeat", "workerId", workerID, "load", load)

	if err := s.workerRepo.UpdateWorkerHeartbeat(ctx, workerID, load, time.Now()); err != nil {
		s.logger.Error("Failed to update worker heartbeat", "workerId", workerID, "error", err)
		return fmt.Errorf("failed to update worker heartbeat: %w", err)
	}

	return nil
}

// GetAllWorkers gets all registered workers annotated with liveness
func (s *WorkerRegistrationService) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	s.logger.Debug("Getting all workers")

	workers, err := s.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		s.logger.Error("Failed to get all workers", "error", err)
		return nil, fmt.Errorf("failed to get all workers: %w", err)
	}

	heartbeatThreshold := time.Now().Add(-2 * time.Minute)
	for _, worker := range workers {
		worker.IsActive = worker.LastHeartbeat.After(heartbeatThreshold)
	}

	return workers, nil
}
