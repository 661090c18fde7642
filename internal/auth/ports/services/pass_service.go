// Package services описывает порты криптографических сервисов аутентификации.
package services

import "context"

// PasswordService хэширует и проверяет пароли.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	Verify(ctx context.Context, password, hash string) (bool, error)

	// NeedsRehash возвращает true, если хэш следует пересчитать с текущими параметрами.
	NeedsRehash(hash string) bool
}
