// Package api описывает входной порт сервиса аутентификации.
package api

import (
	"context"

	"sharenote/internal/auth/domain/services"
)

// AuthUseCase определяет операции аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, username, password string) (*services.TokenPair, error)

	Login(ctx context.Context, username, password string) (*services.TokenPair, error)

	RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	Logout(ctx context.Context, refreshToken string) error

	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
