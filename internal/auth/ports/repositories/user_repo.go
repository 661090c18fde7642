// Package repositories описывает порты хранения сервиса аутентификации.
package repositories

import (
	"context"

	"sharenote/internal/auth/domain/entities"
)

// UserRepository хранит учетные записи пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id int64) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
