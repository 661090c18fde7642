package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sharenote/internal/auth/domain/services"
	svc "sharenote/internal/auth/ports/services"
	"sharenote/pkg/logger"
)

const (
	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgErrorComparingHash   = "error comparing password with hash"
	errMsgPasswordTooShort     = "password is too short"
	errMsgPasswordTooLong      = "password is too long"
)

// MaxPasswordBytes - предел bcrypt, байты сверх него не участвуют в хэше.
const MaxPasswordBytes = 72

// BcryptHasher хэширует пароли bcrypt с заданной стоимостью.
type BcryptHasher struct {
	cost int
}

// NewBcrypt создает хэшер. Стоимость вне диапазона bcrypt заменяется на bcrypt.DefaultCost.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash хэширует пароль.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	switch {
	case password == "":
		return "", services.ErrInvalidPassword
	case len(password) < services.MinPasswordLength:
		return "", fmt.Errorf("%s: %w", errMsgPasswordTooShort, services.ErrInvalidPassword)
	case len(password) > MaxPasswordBytes:
		return "", fmt.Errorf("%s: %w", errMsgPasswordTooLong, services.ErrInvalidPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		logger.Log(ctx).Error(ctx, errMsgFailedToGenerateHash, zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}

	return string(hashed), nil
}

// Verify проверяет соответствие пароля хэшу.
func (h *BcryptHasher) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, services.ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", errMsgErrorComparingHash, err)
	}
}

// NeedsRehash сообщает, что хэш создан с другой стоимостью и его стоит пересчитать.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost != h.cost
}
