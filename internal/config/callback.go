package config

import (
	"os"
	"strconv"
	"time"
)

type CallbackCfg struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
	RequestTimeout  time.Duration
}

func NewCallbackCfg() *CallbackCfg {
	maxAttempts, err := strconv.Atoi(os.Getenv("CALLBACK_MAX_ATTEMPTS"))
	if err != nil || maxAttempts < 1 {
		maxAttempts = 5
	}
	initialMs, err := strconv.Atoi(os.Getenv("CALLBACK_INITIAL_INTERVAL_MS"))
	if err != nil {
		initialMs = 500
	}
	maxElapsedSec, err := strconv.Atoi(os.Getenv("CALLBACK_MAX_ELAPSED_SEC"))
	if err != nil {
		maxElapsedSec = 60
	}
	requestTimeoutSec, err := strconv.Atoi(os.Getenv("CALLBACK_REQUEST_TIMEOUT_SEC"))
	if err != nil {
		requestTimeoutSec = 10
	}
	return &CallbackCfg{
		MaxAttempts:     uint64(maxAttempts),
		InitialInterval: time.Duration(initialMs) * time.Millisecond,
		MaxElapsedTime:  time.Duration(maxElapsedSec) * time.Second,
		RequestTimeout:  time.Duration(requestTimeoutSec) * time.Second,
	}
}
