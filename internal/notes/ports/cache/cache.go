// Package cache определяет интерфейсы для кэширования.
package cache

import (
	"context"
	"time"
)

// Cache определяет интерфейс для работы с кэшем.
type Cache interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// Generation возвращает поколение ключа; 0, если ключ ни разу не сбрасывался.
	Generation(ctx context.Context, key string) (int64, error)

	// SetIfGeneration записывает значение, только если поколение ключа все еще равно generation.
	SetIfGeneration(ctx context.Context, key string, generation int64, value []byte, ttl time.Duration) (bool, error)

	// Invalidate удаляет значение и увеличивает поколение ключа одной операцией.
	Invalidate(ctx context.Context, key string) error

	Close() error
}
