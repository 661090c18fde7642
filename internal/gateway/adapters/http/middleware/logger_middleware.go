package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sharenote/pkg/logger"
)

// NewLoggerMiddleware создает промежуточное ПО, которое присваивает запросу
// request_id, кладет в контекст логгер с путем и методом и логирует начало и завершение запроса.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()

		requestID := logger.NormalizeRequestID(ctx.Get(HeaderRequestID))
		requestCtx := logger.Scoped(
			logger.NewRequestIDContext(ctx.Context(), requestID),
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
		)
		ctx.Locals(LocalRequestContext, requestCtx)
		ctx.Set(HeaderRequestID, requestID)

		log := logger.Log(requestCtx).With(zap.String("ip", ctx.IP()))

		log.Debug(requestCtx, "Request started")

		err := ctx.Next()

		logFields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Error(requestCtx, "Request failed", append(logFields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, "Request completed", logFields...)
		return nil
	}
}
