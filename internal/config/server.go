package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port           int
	StoreTimeout   time.Duration
	PublishTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		port = 8082
	}
	storeTimeoutSec, err := strconv.Atoi(os.Getenv("STORE_TIMEOUT_SEC"))
	if err != nil {
		storeTimeoutSec = 5
	}
	publishTimeoutSec, err := strconv.Atoi(os.Getenv("PUBLISH_TIMEOUT_SEC"))
	if err != nil {
		publishTimeoutSec = 3
	}
	return &ServerConfig{
		Port:           port,
		StoreTimeout:   time.Duration(storeTimeoutSec) * time.Second,
		PublishTimeout: time.Duration(publishTimeoutSec) * time.Second,
	}
}
