package config

import "time"

// JWTConfig содержит настройки для JWT токенов.
type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"NOTES_JWT_SECRET_KEY" env-default:"change-me-in-production"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"NOTES_JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"NOTES_JWT_REFRESH_TOKEN_TTL" env-default:"24h"`
	BCryptCost      int           `yaml:"bcrypt_cost" env:"NOTES_JWT_BCRYPT_COST" env-default:"10"`
}
