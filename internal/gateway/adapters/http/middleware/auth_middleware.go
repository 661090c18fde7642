package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sharenote/internal/gateway/ports/services"
	"sharenote/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "Authentication credentials were not provided."
	ErrorInvalidTokenFormat = "Invalid authorization header format."
	ErrorInvalidToken       = "Given token not valid for any token type."
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware создает промежуточное ПО, которое проверяет Bearer токен
// и сохраняет ID пользователя в Locals. Без токена запрос завершается 401.
func NewAuthMiddleware(authService services.AuthService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		token, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || strings.TrimSpace(token) == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		userID, err := authService.ValidateToken(requestCtx, strings.TrimSpace(token))
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return unauthorized(ctx, ErrorInvalidToken)
		}

		ctx.Locals(LocalUserID, userID)
		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, message string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}
