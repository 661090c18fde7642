package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres:// для migrate
	"github.com/golang-migrate/migrate/v4/source"
	"go.uber.org/zap"

	"sharenote/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrRollbackMigrations      = "failed to roll back migrations"
	ErrReadVersion             = "failed to read migration version"

	LogMigrationsRolledBack = "database migrations rolled back"
	LogNoMigrationChange    = "database schema is up to date"
)

// Migrator применяет миграции из source.Driver к базе по URL.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator создает экземпляр migrate. Имя источника используется только в сообщениях migrate.
func NewMigrator(ctx context.Context, sourceName string, src source.Driver, databaseURL string) (*Migrator, error) {
	m, err := migrate.NewWithSourceInstance(sourceName, src, databaseURL)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	return &Migrator{m: m}, nil
}

// Up применяет все недостающие миграции.
func (mg *Migrator) Up(ctx context.Context) error {
	log := logger.Log(ctx)

	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, LogNoMigrationChange)
			return nil
		}
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied)
	return nil
}

// Down откатывает steps миграций.
func (mg *Migrator) Down(ctx context.Context, steps int) error {
	log := logger.Log(ctx)

	if err := mg.m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		log.Error(ctx, ErrRollbackMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrRollbackMigrations, err)
	}

	log.Info(ctx, LogMigrationsRolledBack, zap.Int("steps", steps))
	return nil
}

// Version возвращает текущую версию схемы. Для пустой базы возвращается 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", ErrReadVersion, err)
	}
	return version, dirty, nil
}

// Close освобождает источник и соединение migrate.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate применяет миграции и закрывает migrator.
func Migrate(ctx context.Context, sourceName string, src source.Driver, databaseURL string) error {
	mg, err := NewMigrator(ctx, sourceName, src, databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Log(ctx).Warn(ctx, "failed to close migrator", zap.Error(err))
		}
	}()

	return mg.Up(ctx)
}
