package services

import (
	"sharenote/internal/auth/ports/services"
	"sharenote/internal/config"
)

// ServiceFactory создает сервисы паролей и токенов из настроек JWT.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(cfg *config.JWTConfig) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(cfg.BCryptCost),
		tokenService:    NewJWT(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис токенов.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}
