// Package cache содержит кэш заметок поверх Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sharenote/internal/notes/ports/cache"
	"sharenote/pkg/logger"
	"sharenote/pkg/resilience"
)

// Константы для логирования.
const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodDelete = "delete"

	LogMethodGeneration      = "generation"
	LogMethodSetIfGeneration = "set_if_generation"
	LogMethodInvalidate      = "invalidate"

	ErrorFailedToGet        = "failed to get value from redis"
	ErrorFailedToSet        = "failed to set value in redis"
	ErrorFailedToDelete     = "failed to delete value from redis"
	ErrorFailedToGeneration = "failed to read key generation from redis"
	ErrorFailedToInvalidate = "failed to invalidate key in redis"
	ErrorFailedToClose      = "failed to close redis connection"
)

// generationTTL ограничивает жизнь счетчика поколения. Должен превышать время загрузки
// значения из источника и TTL самих значений.
const generationTTL = 24 * time.Hour

// GenerationKey возвращает ключ счетчика поколения для key.
func GenerationKey(key string) string {
	return key + ":gen"
}

// KEYS[1] - значение, KEYS[2] - поколение; ARGV: ожидаемое поколение, значение, TTL в мс.
var setIfGenerationScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// KEYS[1] - значение, KEYS[2] - поколение; ARGV[1] - TTL поколения в мс.
var invalidateScript = redis.NewScript(`
redis.call('DEL', KEYS[1])
local generation = redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
return generation
`)

// RedisCache реализует интерфейс Cache с использованием Redis.
// Все обращения проходят через Circuit Breaker.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	breaker    *resilience.CircuitBreaker
}

// NewRedisCache создает новый экземпляр RedisCache.
func NewRedisCache(client *redis.Client, defaultTTL time.Duration, cbConfig resilience.CircuitBreakerConfig) cache.Cache {
	return &RedisCache{
		client:     client,
		defaultTTL: defaultTTL,
		breaker:    resilience.NewCircuitBreaker("redis", cbConfig),
	}
}

// Get получает значение по ключу. Отсутствие ключа не считается ошибкой.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("key", key))

	var value []byte
	found := false
	err := c.breaker.Execute(ctx, func() error {
		v, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}
		value, found = v, true
		return nil
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, found, nil
}

// Set устанавливает значение для ключа с временем жизни.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	err := c.breaker.Execute(ctx, func() error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет значения по ключам.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.Strings("keys", keys))

	if len(keys) == 0 {
		return nil
	}

	err := c.breaker.Execute(ctx, func() error {
		return c.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Generation читает счетчик поколения ключа.
func (c *RedisCache) Generation(ctx context.Context, key string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGeneration), zap.String("key", key))

	var generation int64
	err := c.breaker.Execute(ctx, func() error {
		v, err := c.client.Get(ctx, GenerationKey(key)).Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		generation = v
		return err
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToGeneration, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToGeneration, err)
	}

	return generation, nil
}

// SetIfGeneration атомарно сравнивает поколение ключа и записывает значение.
func (c *RedisCache) SetIfGeneration(
	ctx context.Context,
	key string,
	generation int64,
	value []byte,
	ttl time.Duration,
) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSetIfGeneration), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	var stored bool
	err := c.breaker.Execute(ctx, func() error {
		n, err := setIfGenerationScript.Run(ctx, c.client,
			[]string{key, GenerationKey(key)}, generation, value, ttl.Milliseconds()).Int()
		stored = n == 1
		return err
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToSet, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return stored, nil
}

// Invalidate удаляет значение и сдвигает поколение, чтобы незавершенные заполнения не записали старые данные.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodInvalidate), zap.String("key", key))

	err := c.breaker.Execute(ctx, func() error {
		return invalidateScript.Run(ctx, c.client,
			[]string{key, GenerationKey(key)}, generationTTL.Milliseconds()).Err()
	})
	if err != nil {
		log.Warn(ctx, ErrorFailedToInvalidate, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToInvalidate, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
