package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/graderelay.net/internal/adapter/judge0"
	"gitlab.com/graderelay.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/graderelay.net/internal/adapter/redis/jobqueue"
	"gitlab.com/graderelay.net/internal/adapter/redis/workerport"
	"gitlab.com/graderelay.net/internal/config"
	"gitlab.com/graderelay.net/internal/core/services/callback"
	"gitlab.com/graderelay.net/internal/core/services/judge"
	"gitlab.com/graderelay.net/internal/core/services/worker"
	"gitlab.com/graderelay.net/internal/domain"
	logger2 "gitlab.com/graderelay.net/internal/global/logger"
)

func main() {
	InitReader()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judging worker")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := sqlx.Open("postgres", sysCfg.PostgresConfig.Url)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, "public")
	queue := jobqueue.NewJobQueue(redisClient, logger, sysCfg.WorkerCfg.ConsumeTimeout)
	workerRepo := workerport.NewWorkerRepository(redisClient, logger)
	executor := judge0.NewExecutor(sysCfg.ExecutorCfg, logger)

	// services
	delivery := callback.NewDeliveryService(sysCfg.CallbackCfg, logger)
	runner := judge.NewRunner(queue, submissionRepo, executor, delivery, logger)
	workerSvc := worker.NewWorkerRegistrationService(workerRepo, logger)

	ctx, cancel := context.WithCancel(context.Background())

	// Put back anything a previous run left on the processing list
	if err := queue.Requeue(ctx); err != nil {
		logger.Error("Failed to requeue stranded jobs", "error", err)
	}

	// Register this worker and keep its heartbeat fresh
	hostname, _ := os.Hostname()
	workerID := uuid.New().String()
	if err := workerSvc.RegisterWorker(ctx, &domain.WorkerInfo{ID: workerID, Hostname: hostname}); err != nil {
		logger.Error("Failed to register worker", "error", err)
	}
	go heartbeatLoop(ctx, workerSvc, runner, workerID, sysCfg.WorkerCfg.HeartbeatInterval)

	go runner.Run(ctx)

	<-quit
	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(time.Second)
	logger.Info("successfully shutdown worker")
}

func heartbeatLoop(ctx context.Context, workerSvc worker.IWorkerRegistrationService, runner *judge.Runner, workerID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := workerSvc.Heartbeat(ctx, workerID, runner.Load()); err != nil {
				logger2.Error("Failed to send heartbeat", "workerId", workerID, "error", err)
			}
		}
	}
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
