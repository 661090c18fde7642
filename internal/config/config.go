// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	pkgconfig "sharenote/pkg/config"
	"sharenote/pkg/logger"
)

const (
	serviceName = "notes"

	// EnvConfigPath - переменная окружения с путем к YAML-файлу конфигурации.
	EnvConfigPath = "NOTES_CONFIG_PATH"
	// DefaultEnvFile - .env файл, читаемый перед переменными окружения.
	DefaultEnvFile = "deploy/.env"

	LogConfigLoaded     = "notes service configuration loaded"
	ErrFailedLoadConfig = "failed to load notes service configuration"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из deploy/.env, файла NOTES_CONFIG_PATH и окружения.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, pkgconfig.Options{
		EnvFile:    DefaultEnvFile,
		ConfigPath: os.Getenv(EnvConfigPath),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()))

	return cfg, nil
}
