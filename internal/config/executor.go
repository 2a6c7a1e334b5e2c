package config

import (
	"os"
	"strconv"
	"time"
)

type ExecutorCfg struct {
	URL            string
	AuthToken      string
	RequestTimeout time.Duration
}

func NewExecutorCfg() *ExecutorCfg {
	url := os.Getenv("EXECUTOR_URL")
	if url == "" {
		url = "http://localhost:2358"
	}
	timeoutSec, err := strconv.Atoi(os.Getenv("EXECUTOR_TIMEOUT_SEC"))
	if err != nil {
		timeoutSec = 30
	}
	return &ExecutorCfg{
		URL:            url,
		AuthToken:      os.Getenv("EXECUTOR_AUTH_TOKEN"),
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}
}
