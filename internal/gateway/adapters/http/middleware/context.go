// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи значений в fiber.Ctx.Locals.
const (
	LocalRequestContext = "userContext"
	LocalUserID         = "userID"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// RequestContext возвращает контекст запроса с request_id, сохраненный логирующим middleware.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(LocalRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}

// UserID возвращает ID пользователя, проверенный auth middleware.
func UserID(ctx fiber.Ctx) (int64, bool) {
	userID, ok := ctx.Locals(LocalUserID).(int64)
	return userID, ok && userID > 0
}
