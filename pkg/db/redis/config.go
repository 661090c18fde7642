// Package redis предоставляет общую реализацию клиента Redis.
package redis

import (
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	// Timeout применяется к установке соединения, чтению, записи и первому PING.
	Timeout time.Duration
}

// DefaultConfig возвращает локальный Redis с настройками как в env-default сервиса.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     6379,
		PoolSize: 10,
		Timeout:  3 * time.Second,
	}
}

// Addr возвращает адрес в формате host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Options преобразует конфигурацию в параметры go-redis.
func (c *Config) Options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.Timeout,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.Timeout,
	}
}
