package workerport

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
	workerKeyPrefix  = "worker:"
	workerExpiration = 5 * time.Minute
)

// WorkerRepository implements the WorkerRepository interface with Redis.
// Entries expire on their own when a worker stops heartbeating.
type WorkerRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewWorkerRepository creates a new Redis worker repository
func NewWorkerRepository(redisClient *redis.Client, logger primary.Logger) *WorkerRepository {
	return &WorkerRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// SaveWorker saves worker information to Redis with expiration
func (r *WorkerRepository) SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error {
	workerJSON, err := json.Marshal(worker)
	if err != nil {
		r.logger.Error("Failed to marshal worker info", "error", err)
		return fmt.Errorf("failed to marshal worker info: %w", err)
	}

	workerKey := fmt.Sprintf("%s%s", workerKeyPrefix, worker.ID)
	if err := r.redisClient.Set(ctx, workerKey, workerJSON, workerExpiration).Err(); err != nil {
		r.logger.Error("Failed to save worker info", "error", err)
		return fmt.Errorf("failed to save worker info: %w", err)
	}

	return nil
}

// GetWorker retrieves worker information from Redis by ID
func (r *WorkerRepository) GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error) {
	workerKey := fmt.Sprintf("%s%s", workerKeyPrefix, workerID)
	workerJSON, err := r.redisClient.Get(ctx, workerKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to get worker info", "error", err)
		return nil, fmt.Errorf("failed to get worker info: %w", err)
	}

	var worker domain.WorkerInfo
	if err := json.Unmarshal(workerJSON, &worker); err != nil {
		r.logger.Error("Failed to unmarshal worker info", "error", err)
		return nil, fmt.Errorf("failed to unmarshal worker info: %w", err)
	}

	return &worker, nil
}

// GetAllWorkers retrieves all worker information from Redis
func (r *WorkerRepository) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	var cursor uint64
	var workerKeys []string
	var workers []*domain.WorkerInfo
	var err error

	// Use SCAN to iterate over keys with the worker prefix
	for {
		var keys []string
		keys, cursor, err = r.redisClient.Scan(ctx, cursor, workerKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker keys: %w", err)
		}
		workerKeys = append(workerKeys, keys...)
		if cursor == 0 {
			break
		}
	}

	if len(workerKeys) == 0 {
		return workers, nil
	}

	workerData, err := r.redisClient.MGet(ctx, workerKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve worker data: %w", err)
	}

	for _, data := range workerData {
		if data == nil {
			continue
		}
		var worker domain.WorkerInfo
		if err := json.Unmarshal([]byte(data.(string)), &worker); err != nil {
			return nil, fmt.Errorf("failed to unmarshal worker data: %w", err)
		}
		workers = append(workers, &worker)
	}

	return workers, nil
}

// UpdateWorkerHeartbeat updates a worker's heartbeat and load in Redis
func (r *WorkerRepository) UpdateWorkerHeartbeat(ctx context.Context, workerID string, load int, heartbeatTime time.Time) error {
	worker, err := r.GetWorker(ctx, workerID)
	if err != nil {
		return err
	}

	if worker == nil {
		return fmt.Errorf("worker not found: %s", workerID)
	}

	worker.CurrentLoad = load
	worker.LastHeartbeat = heartbeatTime

	return r.SaveWorker(ctx, worker)
}
