package config

import (
	"os"
	"strconv"
	"time"
)

type WorkerCfg struct {
	HeartbeatInterval time.Duration
	ConsumeTimeout    time.Duration
}

func NewWorkerCfg() *WorkerCfg {
	heartbeatSec, err := strconv.Atoi(os.Getenv("WORKER_HEARTBEAT_INTERVAL_SEC"))
	if err != nil {
		heartbeatSec = 30
	}
	consumeTimeoutSec, err := strconv.Atoi(os.Getenv("WORKER_CONSUME_TIMEOUT_SEC"))
	if err != nil {
		consumeTimeoutSec = 5
	}
	return &WorkerCfg{
		HeartbeatInterval: time.Duration(heartbeatSec) * time.Second,
		ConsumeTimeout:    time.Duration(consumeTimeoutSec) * time.Second,
	}
}
