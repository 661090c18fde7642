// Package app содержит сценарии работы с заметками: создание, чтение, изменение, выдачу доступа и историю.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sharenote/internal/notes/domain/entities"
	"sharenote/internal/notes/ports/api"
	"sharenote/internal/notes/ports/repositories"
	"sharenote/pkg/logger"
	"sharenote/pkg/validation"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound  = errors.New("note not found")
	ErrForbidden = errors.New("access to note denied")
)

// Параметры пагинации списка заметок.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

const (
	msgCreatingNote    = "creating note"
	msgNoteCreated     = "note created"
	msgNoteAccessDeny  = "note access denied"
	msgNoteUpdated     = "note updated"
	msgNoteShared      = "note shared"
	msgInvalidInput    = "invalid input"
	msgErrCreateNote   = "failed to create note"
	msgErrGetNote      = "failed to get note"
	msgErrListNotes    = "failed to list notes"
	msgErrUpdateNote   = "failed to update note"
	msgErrShareNote    = "failed to share note"
	msgErrListVersions = "failed to list note versions"

	errCtxValidating     = "validating input"
	errCtxCreatingNote   = "creating note"
	errCtxGettingNote    = "getting note"
	errCtxListingNotes   = "listing notes"
	errCtxUpdatingNote   = "updating note"
	errCtxSharingNote    = "sharing note"
	errCtxListingHistory = "listing note history"
)

type createInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type updateInput struct {
	Title   string `json:"title" validate:"max=255"`
	Content string `json:"content" validate:"required"`
}

type shareInput struct {
	NoteID  int64   `json:"note_id" validate:"gt=0"`
	UserIDs []int64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

// NoteUseCaseImpl реализует интерфейс NoteUseCase.
type NoteUseCaseImpl struct {
	noteRepo repositories.NoteRepository
}

// NewNoteUseCase создает новый экземпляр сервиса заметок.
func NewNoteUseCase(noteRepo repositories.NoteRepository) api.NoteUseCase {
	return &NoteUseCaseImpl{noteRepo: noteRepo}
}

// CreateNote создает заметку, владельцем которой становится пользователь.
func (uc *NoteUseCaseImpl) CreateNote(ctx context.Context, userID int64, title, content string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "CreateNote"), zap.Int64("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	in := createInput{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
	if err := validation.Struct(in); err != nil {
		log.Debug(ctx, msgInvalidInput, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	note, err := uc.noteRepo.Create(ctx, entities.NewNote(userID, in.Title, in.Content))
	if err != nil {
		log.Error(ctx, msgErrCreateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.Int64("noteID", note.ID))
	return note, nil
}

// GetNote возвращает заметку владельцу или получателю доступа.
func (uc *NoteUseCaseImpl) GetNote(ctx context.Context, userID, noteID int64) (*entities.Note, error) {
	note, _, err := uc.readable(ctx, "GetNote", userID, noteID)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListNotes возвращает заметки, которыми пользователь владеет или которые ему доступны.
func (uc *NoteUseCaseImpl) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "ListNotes"), zap.Int64("userID", userID))

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	notes, total, err := uc.noteRepo.ListAccessible(ctx, userID, limit, offset)
	if err != nil {
		log.Error(ctx, msgErrListNotes, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return notes, total, nil
}

// UpdateNote заменяет содержимое заметки и пишет версию в журнал изменений.
// Пустой заголовок сохраняет текущий.
func (uc *NoteUseCaseImpl) UpdateNote(
	ctx context.Context,
	userID, noteID int64,
	title, content string,
) (*entities.NoteVersion, error) {
	log := logger.Log(ctx).With(zap.String("method", "UpdateNote"),
		zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	version, err := uc.noteRepo.UpdateContent(ctx, noteID, userID, func(note *entities.Note) (string, string, error) {
		if !entities.Classify(userID, note).CanEdit() {
			return "", "", ErrForbidden
		}

		in := updateInput{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
		if err := validation.Struct(in); err != nil {
			return "", "", err
		}
		if in.Title == "" {
			in.Title = note.Title
		}
		return in.Title, in.Content, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNoteNotFound):
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, ErrNotFound)
		case errors.Is(err, ErrForbidden):
			log.Debug(ctx, msgNoteAccessDeny)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, ErrForbidden)
		case errors.Is(err, validation.ErrInvalid):
			log.Debug(ctx, msgInvalidInput, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
		}
		log.Error(ctx, msgErrUpdateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingNote, err)
	}

	log.Info(ctx, msgNoteUpdated, zap.Int64("versionID", version.ID))
	return version, nil
}

// ShareNote выдает доступ к заметке. Делиться может только владелец;
// неизвестные пользователи пропускаются. Возвращает число новых получателей.
func (uc *NoteUseCaseImpl) ShareNote(ctx context.Context, userID, noteID int64, userIDs []int64) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "ShareNote"),
		zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	if err := validation.Struct(shareInput{NoteID: noteID, UserIDs: userIDs}); err != nil {
		log.Debug(ctx, msgInvalidInput, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	note, err := uc.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return 0, fmt.Errorf("%s: %w", errCtxSharingNote, ErrNotFound)
		}
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxSharingNote, err)
	}

	if !entities.Classify(userID, note).CanShare() {
		log.Debug(ctx, msgNoteAccessDeny)
		return 0, fmt.Errorf("%s: %w", errCtxSharingNote, ErrForbidden)
	}

	added, err := uc.noteRepo.AddShares(ctx, noteID, userIDs)
	if err != nil {
		log.Error(ctx, msgErrShareNote, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxSharingNote, err)
	}

	log.Info(ctx, msgNoteShared, zap.Int64("added", added))
	return added, nil
}

// NoteHistory возвращает журнал изменений заметки, новые записи первыми.
func (uc *NoteUseCaseImpl) NoteHistory(ctx context.Context, userID, noteID int64) ([]*entities.NoteVersion, error) {
	_, log, err := uc.readable(ctx, "NoteHistory", userID, noteID)
	if err != nil {
		return nil, err
	}

	versions, err := uc.noteRepo.ListVersions(ctx, noteID)
	if err != nil {
		log.Error(ctx, msgErrListVersions, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingHistory, err)
	}

	return versions, nil
}

// readable загружает заметку и проверяет право чтения.
func (uc *NoteUseCaseImpl) readable(
	ctx context.Context,
	method string,
	userID, noteID int64,
) (*entities.Note, *logger.Logger, error) {
	log := logger.Log(ctx).With(zap.String("method", method),
		zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	note, err := uc.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return nil, log, fmt.Errorf("%s: %w", errCtxGettingNote, ErrNotFound)
		}
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return nil, log, fmt.Errorf("%s: %w", errCtxGettingNote, err)
	}

	if !entities.Classify(userID, note).CanRead() {
		log.Debug(ctx, msgNoteAccessDeny)
		return nil, log, fmt.Errorf("%s: %w", errCtxGettingNote, ErrForbidden)
	}

	return note, log, nil
}
