// Package response отправляет JSON ответы и сопоставляет ошибки сценариев HTTP статусам.
package response

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	authdomain "sharenote/internal/auth/domain/services"
	"sharenote/internal/gateway/app/dto"
	notesapp "sharenote/internal/notes/app"
	"sharenote/pkg/validation"
)

// Тексты ответов с ошибками. Ответы 403 и 404 не содержат данных заметки.
const (
	MsgValidationFailed = "Invalid input."
	MsgNoteNotFound     = "Note not found."
	MsgForbidden        = "You do not have permission to access this note."
	MsgInternalError    = "Internal server error"
	MsgInvalidBody      = "Invalid request body."
	MsgInvalidNoteID    = "Invalid note id."
	MsgInvalidPaging    = "Invalid pagination parameters."
)

// JSON отправляет тело с указанным статусом.
func JSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Message отправляет {"message": ...}.
func Message(ctx fiber.Ctx, status int, message string) error {
	return JSON(ctx, status, dto.MessageResponse{Message: message})
}

// Fail отправляет {"error": ...}.
func Fail(ctx fiber.Ctx, status int, message string) error {
	return JSON(ctx, status, dto.ErrorResponse{Error: message})
}

// Error выбирает HTTP статус по ошибке сценария.
func Error(ctx fiber.Ctx, err error) error {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		return JSON(ctx, fiber.StatusBadRequest, dto.ErrorResponse{Error: MsgValidationFailed, Fields: vErr.Fields})
	case errors.Is(err, validation.ErrInvalid):
		return Fail(ctx, fiber.StatusBadRequest, MsgValidationFailed)
	case errors.Is(err, notesapp.ErrNotFound):
		return Fail(ctx, fiber.StatusNotFound, MsgNoteNotFound)
	case errors.Is(err, notesapp.ErrForbidden):
		return Fail(ctx, fiber.StatusForbidden, MsgForbidden)
	case errors.Is(err, authdomain.ErrUsernameAlreadyExists):
		return JSON(ctx, fiber.StatusBadRequest, dto.ErrorResponse{
			Error:  MsgValidationFailed,
			Fields: map[string]string{"username": authdomain.ErrUsernameAlreadyExists.Error()},
		})
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return Fail(ctx, fiber.StatusUnauthorized, authdomain.ErrInvalidCredentials.Error())
	case errors.Is(err, authdomain.ErrInvalidRefreshToken),
		errors.Is(err, authdomain.ErrRevokedRefreshToken),
		errors.Is(err, authdomain.ErrExpiredRefreshToken):
		return Fail(ctx, fiber.StatusUnauthorized, authdomain.ErrInvalidRefreshToken.Error())
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Fail(ctx, fiberErr.Code, fiberErr.Message)
	}

	return Fail(ctx, fiber.StatusInternalServerError, MsgInternalError)
}
