// Package db инициализирует базу данных сервиса заметок: миграции и пул соединений.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sharenote/internal/config"
	"sharenote/migrations"
	"sharenote/pkg/db/postgres"
	"sharenote/pkg/logger"
	"sharenote/pkg/resilience"
)

// Константы для сообщений logger.
const (
	LogDBInitializing    = "initializing notes database"
	LogDBInitialized     = "notes database initialized successfully"
	LogMigrationStarting = "starting database migrations"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations      = "failed to apply database migrations"
	ErrDBConnection      = "failed to connect to database"
	ErrDBCheckConnection = "error checking the database connection"
)

// Options задает поведение New.
type Options struct {
	// SkipMigrations отключает применение миграций при старте.
	SkipMigrations bool
	// Retry - повторные попытки подключения, пока база поднимается.
	Retry resilience.RetryConfig
}

// DefaultOptions возвращает настройки по умолчанию.
func DefaultOptions() Options {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 5
	retry.MaxBackoff = 5 * retry.MaxBackoff
	return Options{Retry: retry}
}

// DB представляет соединение с базой данных сервиса.
type DB struct {
	database *postgres.Database
}

// New применяет миграции и открывает пул соединений.
func New(ctx context.Context, cfg *config.PostgresConfig, opts Options) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	retry := resilience.NewRetry("postgres", opts.Retry)

	if !opts.SkipMigrations {
		log.Info(ctx, LogMigrationStarting)
		err := retry.Execute(ctx, func() error {
			src, err := migrations.Source()
			if err != nil {
				return err
			}
			return postgres.Migrate(ctx, migrations.SourceName, src, cfg.GetConnectionURL())
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
		}
	}

	var database *postgres.Database
	err := retry.Execute(ctx, func() error {
		var err error
		database, err = postgres.New(ctx, cfg.PoolConfig())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.database.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDBCheckConnection, err)
	}
	return nil
}
