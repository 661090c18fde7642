package services

import (
	"context"
	"time"
)

// TokenService определяет операции с токенами.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID int64, username string) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (int64, error)
}
