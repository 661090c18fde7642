// Package app содержит сценарии аутентификации: регистрацию, вход, обновление токенов и выход.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sharenote/internal/auth/domain/entities"
	"sharenote/internal/auth/domain/services"
	"sharenote/internal/auth/ports/api"
	"sharenote/internal/auth/ports/repositories"
	svc "sharenote/internal/auth/ports/services"
	"sharenote/pkg/logger"
	"sharenote/pkg/validation"
)

const (
	methodRegister       = "Register"
	methodLogin          = "Login"
	methodRefreshTokens  = "RefreshTokens"
	methodLogout         = "Logout"
	methodCleanup        = "CleanupExpiredTokens"
	methodGenerateTokens = "generateTokenPair"

	msgStartRegistration   = "starting user registration"
	msgInvalidInput        = "invalid input"
	msgUsernameExists      = "user with this username already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent username"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgRevokedTokenReuse   = "revoked refresh token reused, revoking all user tokens"
	msgExpiredToken        = "refresh token expired"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"
	msgTokenPairGenerated  = "token pair generated successfully"
	msgTokensCleaned       = "expired refresh tokens removed"
	msgPasswordRehashed    = "password hash upgraded"

	msgErrCheckExistingUser    = "failed to check existing user"
	msgErrHashPassword         = "failed to hash password"
	msgErrCreateUser           = "failed to create user"
	msgErrFindingUser          = "error finding user"
	msgErrVerifyingPassword    = "error verifying password"
	msgErrGenerateTokens       = "failed to generate tokens"
	msgErrFindingToken         = "failed to find refresh token"
	msgErrRevokingAllTokens    = "failed to revoke user tokens"
	msgErrRevokingOldToken     = "failed to revoke old token"
	msgErrRevokingToken        = "failed to revoke refresh token"
	msgErrGenerateAccessToken  = "failed to generate access token"
	msgErrGenerateRefreshToken = "failed to generate refresh token"
	msgErrStoreRefreshToken    = "failed to store refresh token"
	msgErrCleanupTokens        = "failed to clean up expired tokens"
	msgErrRehashPassword       = "failed to upgrade password hash"

	errCtxValidating             = "validating input"
	errCtxCheckingUser           = "checking existing user"
	errCtxUsernameRegistered     = "username already registered"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingUser           = "creating user"
	errCtxGeneratingTokens       = "generating tokens"
	errCtxInvalidCredentials     = "invalid credentials"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingPassword      = "verifying password"
	errCtxFindingRefreshToken    = "finding refresh token"
	errCtxTokenRevoked           = "token revoked"
	errCtxTokenExpired           = "token expired"
	errCtxRevokingOldToken       = "revoking old token"
	errCtxRevokingToken          = "revoking token"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
	errCtxCleanup                = "cleaning up tokens"
)

type credentialsInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	now         func() time.Time
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		now:         time.Now,
	}
}

// Register создает пользователя и выдает ему пару токенов.
func (a *AuthUseCaseImpl) Register(ctx context.Context, username, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	if err := validation.Struct(credentialsInput{Username: username, Password: password}); err != nil {
		log.Debug(ctx, msgInvalidInput, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	existingUser, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgUsernameExists)
		return nil, fmt.Errorf("%s: %w", errCtxUsernameRegistered, services.ErrUsernameAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Username:     username,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", createdUser.ID))

	tokenPair, err := a.generateTokenPair(ctx, createdUser)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	return tokenPair, nil
}

// Login проверяет имя пользователя и пароль и выдает пару токенов.
func (a *AuthUseCaseImpl) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("username", username))
	log.Debug(ctx, msgLoginAttempt)

	if err := validation.Struct(loginInput{Username: username, Password: password}); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	user, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	if a.passwordSvc.NeedsRehash(user.PasswordHash) {
		a.rehashPassword(ctx, user.ID, password)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.Int64("userID", user.ID))
	return tokenPair, nil
}

// RefreshTokens отзывает предъявленный refresh-токен и выдает новую пару.
// Повторное предъявление отозванного токена отзывает все токены пользователя.
func (a *AuthUseCaseImpl) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))
	log.Debug(ctx, msgRefreshingTokens)

	if err := validation.Struct(refreshInput{RefreshToken: refreshToken}); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	token, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Error(ctx, msgErrFindingToken, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, err)
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, services.ErrInvalidRefreshToken)
	}

	log = log.With(zap.Int64("userID", token.UserID))

	if token.IsRevoked {
		log.Warn(ctx, msgRevokedTokenReuse)
		if err := a.tokenRepo.RevokeAllUserTokens(ctx, token.UserID); err != nil {
			log.Error(ctx, msgErrRevokingAllTokens, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxTokenRevoked, services.ErrRevokedRefreshToken)
	}

	if !token.ExpiresAt.After(a.now()) {
		log.Debug(ctx, msgExpiredToken)
		return nil, fmt.Errorf("%s: %w", errCtxTokenExpired, services.ErrExpiredRefreshToken)
	}

	user, err := a.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		log.Error(ctx, msgErrRevokingOldToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRevokingOldToken, err)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed)
	return tokenPair, nil
}

// Logout отзывает refresh-токен.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if err := validation.Struct(refreshInput{RefreshToken: refreshToken}); err != nil {
		return fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if !errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// CleanupExpiredTokens удаляет просроченные и отозванные refresh-токены.
func (a *AuthUseCaseImpl) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCleanup))

	removed, err := a.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		log.Error(ctx, msgErrCleanupTokens, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxCleanup, err)
	}

	log.Info(ctx, msgTokensCleaned, zap.Int64("removed", removed))
	return removed, nil
}

// rehashPassword пересчитывает хэш пароля после успешного входа. Ошибки не прерывают вход.
func (a *AuthUseCaseImpl) rehashPassword(ctx context.Context, userID int64, password string) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.Int64("userID", userID))

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err == nil {
		err = a.userRepo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		log.Warn(ctx, msgErrRehashPassword, zap.Error(err))
		return
	}

	log.Info(ctx, msgPasswordRehashed)
}

func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateTokens),
		zap.Int64("userID", user.ID),
	)

	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed)
	}

	if err := a.tokenRepo.StoreRefreshToken(ctx, &services.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpires,
	}); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	log.Debug(ctx, msgTokenPairGenerated)

	return &services.TokenPair{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpires,
	}, nil
}
