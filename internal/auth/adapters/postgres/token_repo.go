package postgres

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"sharenote/internal/auth/domain/services"
	"sharenote/internal/auth/ports/repositories"
	pgdb "sharenote/pkg/db/postgres"
	"sharenote/pkg/logger"
)

// Константы для логирования и ошибок репозитория токенов.
const (
	logTokenNotFound      = "refresh token not found"
	logTokenNotRevoked    = "refresh token not found for revocation"
	logUserTokensRevoked  = "user refresh tokens revoked"
	logExpiredTokensGone  = "expired refresh tokens removed"
	errFindRefreshToken   = "error querying refresh token"
	errStoreRefreshToken  = "error storing refresh token"
	errRevokeRefreshToken = "error revoking refresh token"
	errRevokeUserTokens   = "error revoking all user tokens"
	errCleanupTokens      = "error cleaning up expired tokens"
)

// HashToken возвращает hex BLAKE2b-256 от refresh-токена. В базе хранится только хэш.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenRepository хранит refresh-токены в Postgres.
type TokenRepository struct {
	pool pgdb.Pool
}

// NewTokenRepository создает новый экземпляр репозитория токенов.
func NewTokenRepository(pool pgdb.Pool) repositories.TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "token"), zap.String("method", method))
}

// FindByToken находит токен по его значению.
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*services.RefreshToken, error) {
	log := r.log(ctx, "FindByToken")

	const query = `
        SELECT id::text, user_id, expires_at, created_at, is_revoked
        FROM refresh_tokens
        WHERE token_hash = $1
    `

	refreshToken := services.RefreshToken{Token: token}
	err := r.pool.QueryRow(ctx, query, HashToken(token)).Scan(
		&refreshToken.ID,
		&refreshToken.UserID,
		&refreshToken.ExpiresAt,
		&refreshToken.CreatedAt,
		&refreshToken.IsRevoked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, logTokenNotFound)
			return nil, services.ErrInvalidRefreshToken
		}
		log.Error(ctx, errFindRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFindRefreshToken, err)
	}

	return &refreshToken, nil
}

// StoreRefreshToken сохраняет хэш нового refresh-токена.
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (user_id, token_hash, expires_at, is_revoked)
        VALUES ($1, $2, $3, $4)
    `

	if _, err := r.pool.Exec(ctx, query, token.UserID, HashToken(token.Token), token.ExpiresAt, token.IsRevoked); err != nil {
		r.log(ctx, "StoreRefreshToken").Error(ctx, errStoreRefreshToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errStoreRefreshToken, err)
	}

	return nil
}

// RevokeToken отзывает действующий refresh-токен.
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	log := r.log(ctx, "RevokeToken")

	const query = `
        UPDATE refresh_tokens
        SET is_revoked = true
        WHERE token_hash = $1 AND is_revoked = false
    `

	result, err := r.pool.Exec(ctx, query, HashToken(token))
	if err != nil {
		log.Error(ctx, errRevokeRefreshToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errRevokeRefreshToken, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, logTokenNotRevoked)
		return services.ErrInvalidRefreshToken
	}

	return nil
}

// RevokeAllUserTokens отзывает все токены пользователя.
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	log := r.log(ctx, "RevokeAllUserTokens").With(zap.Int64("userID", userID))

	const query = `
        UPDATE refresh_tokens
        SET is_revoked = true
        WHERE user_id = $1 AND is_revoked = false
    `

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		log.Error(ctx, errRevokeUserTokens, zap.Error(err))
		return fmt.Errorf("%s: %w", errRevokeUserTokens, err)
	}

	log.Debug(ctx, logUserTokensRevoked, zap.Int64("revoked_count", result.RowsAffected()))
	return nil
}

// CleanupExpiredTokens удаляет просроченные токены. Отозванные токены живут до истечения срока,
// чтобы повторное предъявление распознавалось.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	log := r.log(ctx, "CleanupExpiredTokens")

	const query = `
        DELETE FROM refresh_tokens
        WHERE expires_at < NOW()
    `

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		log.Error(ctx, errCleanupTokens, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCleanupTokens, err)
	}

	log.Debug(ctx, logExpiredTokensGone, zap.Int64("removed", result.RowsAffected()))
	return result.RowsAffected(), nil
}
