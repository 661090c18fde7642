// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sharenote/internal/gateway/adapters/http/middleware"
	"sharenote/internal/gateway/adapters/http/response"
	"sharenote/internal/gateway/app/dto"
	"sharenote/internal/gateway/ports/services"
	"sharenote/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote  = "handling create note request"
	LogHandlerGetNote     = "handling get note request"
	LogHandlerListNotes   = "handling list notes request"
	LogHandlerUpdateNote  = "handling update note request"
	LogHandlerShareNote   = "handling share note request"
	LogHandlerNoteHistory = "handling note history request"

	ErrMsgRequestFailed = "note request failed"

	MsgNoteUpdated = "Note updated successfully."
	MsgNoteShared  = "Note shared successfully"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesService services.NotesService
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesService services.NotesService) *Handler {
	return &Handler{
		notesService: notesService,
	}
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.CreateNote", LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	note, err := h.notesService.CreateNote(requestCtx, userID, &req)
	if err != nil {
		log.Debug(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusCreated, note)
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.GetNote", LogHandlerGetNote)

	noteID, ok := parseNoteID(ctx)
	if !ok {
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidNoteID)
	}

	note, err := h.notesService.GetNote(requestCtx, userID, noteID)
	if err != nil {
		log.Debug(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusOK, note)
}

// ListNotes обрабатывает запрос на получение списка заметок с пагинацией.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.ListNotes", LogHandlerListNotes)

	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil {
		log.Debug(requestCtx, response.MsgInvalidPaging, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidPaging)
	}

	offset, err := strconv.Atoi(ctx.Query("offset", "0"))
	if err != nil {
		log.Debug(requestCtx, response.MsgInvalidPaging, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidPaging)
	}

	notes, err := h.notesService.ListNotes(requestCtx, userID, limit, offset)
	if err != nil {
		log.Error(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusOK, notes)
}

// UpdateNote обрабатывает запрос на обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.UpdateNote", LogHandlerUpdateNote)

	noteID, ok := parseNoteID(ctx)
	if !ok {
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidNoteID)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	if err := h.notesService.UpdateNote(requestCtx, userID, noteID, &req); err != nil {
		log.Debug(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.Message(ctx, fiber.StatusOK, MsgNoteUpdated)
}

// ShareNote обрабатывает запрос на выдачу доступа к заметке.
func (h *Handler) ShareNote(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.ShareNote", LogHandlerShareNote)

	var req dto.ShareNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, response.MsgInvalidBody, zap.Error(err))
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidBody)
	}

	if err := h.notesService.ShareNote(requestCtx, userID, &req); err != nil {
		log.Debug(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.Message(ctx, fiber.StatusOK, MsgNoteShared)
}

// NoteHistory обрабатывает запрос на получение истории изменений заметки.
func (h *Handler) NoteHistory(ctx fiber.Ctx) error {
	requestCtx, log, userID := h.prepare(ctx, "Handler.NoteHistory", LogHandlerNoteHistory)

	noteID, ok := parseNoteID(ctx)
	if !ok {
		return response.Fail(ctx, fiber.StatusBadRequest, response.MsgInvalidNoteID)
	}

	history, err := h.notesService.NoteHistory(requestCtx, userID, noteID)
	if err != nil {
		log.Debug(requestCtx, ErrMsgRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return response.JSON(ctx, fiber.StatusOK, history)
}

func (h *Handler) prepare(ctx fiber.Ctx, handler, msg string) (context.Context, *logger.Logger, int64) {
	requestCtx := middleware.RequestContext(ctx)
	userID, _ := middleware.UserID(ctx)

	log := logger.Log(requestCtx).With(zap.String("handler", handler), zap.Int64("userID", userID))
	log.Debug(requestCtx, msg)
	return requestCtx, log, userID
}

func parseNoteID(ctx fiber.Ctx) (int64, bool) {
	noteID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || noteID <= 0 {
		return 0, false
	}
	return noteID, true
}
