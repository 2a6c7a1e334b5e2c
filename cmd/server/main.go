package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/graderelay.net/internal/adapter/postgres/languagerepository"
	"gitlab.com/graderelay.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/graderelay.net/internal/adapter/redis/jobqueue"
	"gitlab.com/graderelay.net/internal/adapter/redis/workerport"
	"gitlab.com/graderelay.net/internal/config"
	"gitlab.com/graderelay.net/internal/core/services/intake"
	"gitlab.com/graderelay.net/internal/core/services/worker"
	logger2 "gitlab.com/graderelay.net/internal/global/logger"
	http2 "gitlab.com/graderelay.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting submission intake service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, "public")
	languageRepo := languagerepository.NewLanguageRepository(db, logger, "public")
	queue := jobqueue.NewJobQueue(redisClient, logger, sysCfg.WorkerCfg.ConsumeTimeout)
	workerRepo := workerport.NewWorkerRepository(redisClient, logger)

	// One-shot setup: tables plus the fixed language registry
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSetup()
	if err := submissionRepo.EnsureSchema(setupCtx); err != nil {
		panic(err)
	}
	if err := languageRepo.EnsureSeeded(setupCtx); err != nil {
		panic(err)
	}

	// services
	intakeSvc := intake.NewIntakeService(
		submissionRepo,
		languageRepo,
		queue,
		logger,
		sysCfg.ServerConfig.StoreTimeout,
		sysCfg.ServerConfig.PublishTimeout,
	)
	workerSvc := worker.NewWorkerRegistrationService(workerRepo, logger)
	serviceProvider := http2.NewServiceProvider(intakeSvc, workerSvc)

	// server
	httpServer := http2.NewServer(sysCfg.ServerConfig.Port, "graderelay", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
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
