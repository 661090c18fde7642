// Package services адаптирует сценарии аутентификации и заметок к DTO HTTP API.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	authdomain "sharenote/internal/auth/domain/services"
	authapi "sharenote/internal/auth/ports/api"
	authsvc "sharenote/internal/auth/ports/services"
	"sharenote/internal/gateway/app/dto"
	"sharenote/internal/gateway/ports/services"
	"sharenote/pkg/logger"
)

// Константы для логирования.
const (
	LogServiceRegister      = "auth service: register"
	LogServiceLogin         = "auth service: login"
	LogServiceRefreshTokens = "auth service: refresh tokens" // #nosec G101 - not a credential
	LogServiceLogout        = "auth service: logout"

	ErrorRegisterFailed      = "registration failed"
	ErrorLoginFailed         = "login failed"
	ErrorRefreshTokensFailed = "token refresh failed"
	ErrorLogoutFailed        = "logout failed"
	ErrorValidateToken       = "token validation failed"
)

// AuthServiceImpl реализация интерфейса AuthService.
type AuthServiceImpl struct {
	auth   authapi.AuthUseCase
	tokens authsvc.TokenService
}

// NewAuthService создает новый экземпляр сервиса авторизации.
func NewAuthService(auth authapi.AuthUseCase, tokens authsvc.TokenService) services.AuthService {
	return &AuthServiceImpl{auth: auth, tokens: tokens}
}

// Register регистрирует пользователя.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	logger.Log(ctx).Debug(ctx, LogServiceRegister, zap.String("username", req.Username))

	pair, err := s.auth.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorRegisterFailed, err)
	}
	return convertTokenPair(pair), nil
}

// Login выполняет вход пользователя.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	logger.Log(ctx).Debug(ctx, LogServiceLogin, zap.String("username", req.Username))

	pair, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorLoginFailed, err)
	}
	return convertTokenPair(pair), nil
}

// RefreshTokens обновляет пару токенов.
func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	logger.Log(ctx).Debug(ctx, LogServiceRefreshTokens)

	pair, err := s.auth.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorRefreshTokensFailed, err)
	}
	return convertTokenPair(pair), nil
}

// Logout отзывает refresh токен.
func (s *AuthServiceImpl) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	logger.Log(ctx).Debug(ctx, LogServiceLogout)

	if err := s.auth.Logout(ctx, req.RefreshToken); err != nil {
		return fmt.Errorf("%s: %w", ErrorLogoutFailed, err)
	}
	return nil
}

// ValidateToken проверяет access токен.
func (s *AuthServiceImpl) ValidateToken(ctx context.Context, token string) (int64, error) {
	userID, err := s.tokens.ValidateAccessToken(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrorValidateToken, err)
	}
	return userID, nil
}

func convertTokenPair(pair *authdomain.TokenPair) *dto.TokenResponse {
	return &dto.TokenResponse{
		UserID:       pair.UserID,
		Username:     pair.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
}
