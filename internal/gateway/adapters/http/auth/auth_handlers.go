// Package auth содержит HTTP обработчики для работы с сервисом авторизации.
package auth

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sharenote/internal/gateway/adapters/http/middleware"
	"sharenote/internal/gateway/adapters/http/response"
	"sharenote/internal/gateway/app/dto"
	"sharenote/internal/gateway/ports/services"
	"sharenote/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister      = "auth handler: register"
	LogHandlerLogin         = "auth handler: login"
	LogHandlerRefreshTokens = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerLogout        = "auth handler: logout"

	ErrorFailedToServeRequest = "failed to serve request"

	MsgLoggedOut = "Successfully logged out."
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	authService services.AuthService
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authService services.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	tokens, err := h.authService.Register(requestCtx, &req)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusCreated, tokens)
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	tokens, err := h.authService.Login(requestCtx, &req)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusOK, tokens)
}

// RefreshTokens обрабатывает запрос на обновление токенов.
func (h *Handler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefreshTokens)

	var req dto.RefreshRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	tokens, err := h.authService.RefreshTokens(requestCtx, &req)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusOK, tokens)
}

// Logout обрабатывает запрос на выход пользователя.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	var req dto.LogoutRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	if err := h.authService.Logout(requestCtx, &req); err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.Message(ctx, fiber.StatusOK, MsgLoggedOut)
}
