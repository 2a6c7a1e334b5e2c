package config

import "os"

type AppConfig struct {
	DebugMode      bool
	ServerConfig   *ServerConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	CallbackCfg    *CallbackCfg
	ExecutorCfg    *ExecutorCfg
	WorkerCfg      *WorkerCfg
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		ServerConfig:   NewServerConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		CallbackCfg:    NewCallbackCfg(),
		ExecutorCfg:    NewExecutorCfg(),
		WorkerCfg:      NewWorkerCfg(),
	}
}
