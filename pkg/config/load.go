// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sharenote/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"
	msgDotEnvLoaded         = "environment file loaded"

	errFailedLoadDotEnv        = "failed to load environment file"
	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Options задает источники конфигурации.
type Options struct {
	// EnvFile - необязательный .env файл; отсутствующий файл пропускается.
	EnvFile string
	// ConfigPath - необязательный YAML/TOML файл, поверх которого применяется окружение.
	ConfigPath string
}

// Load читает конфигурацию типа T: сначала .env, затем файл (если задан), затем переменные окружения.
func Load[T any](ctx context.Context, serviceName string, opts Options) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Error(ctx, errFailedLoadDotEnv, zap.String(attrPath, opts.EnvFile), zap.Error(err))
				return nil, fmt.Errorf("%s: %w", errFailedLoadDotEnv, err)
			}
		} else {
			log.Debug(ctx, msgDotEnvLoaded, zap.String(attrPath, opts.EnvFile))
		}
	}

	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, opts.ConfigPath))

	var cfg T
	var err error
	if opts.ConfigPath != "" {
		if _, statErr := os.Stat(opts.ConfigPath); statErr != nil {
			return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, statErr)
		}
		err = cleanenv.ReadConfig(opts.ConfigPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)

	return &cfg, nil
}
