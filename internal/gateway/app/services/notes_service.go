package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sharenote/internal/gateway/app/dto"
	"sharenote/internal/gateway/ports/services"
	"sharenote/internal/notes/domain/entities"
	notesapi "sharenote/internal/notes/ports/api"
	"sharenote/pkg/logger"
)

// Константы для логирования.
const (
	LogServiceCreateNote  = "notes service: create note"
	LogServiceGetNote     = "notes service: get note"
	LogServiceListNotes   = "notes service: list notes"
	LogServiceUpdateNote  = "notes service: update note"
	LogServiceShareNote   = "notes service: share note"
	LogServiceNoteHistory = "notes service: note history"

	ErrorCreateNoteFailed  = "failed to create note"
	ErrorGetNoteFailed     = "failed to get note"
	ErrorListNotesFailed   = "failed to list notes"
	ErrorUpdateNoteFailed  = "failed to update note"
	ErrorShareNoteFailed   = "failed to share note"
	ErrorNoteHistoryFailed = "failed to get note history"
)

// NotesServiceImpl реализация интерфейса NotesService.
type NotesServiceImpl struct {
	notes notesapi.NoteUseCase
}

// NewNotesService создает новый экземпляр сервиса заметок.
func NewNotesService(notes notesapi.NoteUseCase) services.NotesService {
	return &NotesServiceImpl{notes: notes}
}

// CreateNote создает новую заметку.
func (s *NotesServiceImpl) CreateNote(ctx context.Context, userID int64, req *dto.CreateNoteRequest) (*dto.Note, error) {
	logger.Log(ctx).Debug(ctx, LogServiceCreateNote, zap.Int64("userID", userID))

	note, err := s.notes.CreateNote(ctx, userID, req.Title, req.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorCreateNoteFailed, err)
	}
	return convertNote(note), nil
}

// GetNote получает заметку по ID.
func (s *NotesServiceImpl) GetNote(ctx context.Context, userID, noteID int64) (*dto.Note, error) {
	logger.Log(ctx).Debug(ctx, LogServiceGetNote, zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	note, err := s.notes.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorGetNoteFailed, err)
	}
	return convertNote(note), nil
}

// ListNotes получает список доступных заметок с пагинацией.
func (s *NotesServiceImpl) ListNotes(ctx context.Context, userID int64, limit, offset int) (*dto.ListNotesResponse, error) {
	logger.Log(ctx).Debug(ctx, LogServiceListNotes, zap.Int64("userID", userID))

	notes, total, err := s.notes.ListNotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorListNotesFailed, err)
	}

	resp := &dto.ListNotesResponse{
		Notes:      make([]*dto.Note, 0, len(notes)),
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, convertNote(n))
	}
	return resp, nil
}

// UpdateNote обновляет содержимое заметки.
func (s *NotesServiceImpl) UpdateNote(ctx context.Context, userID, noteID int64, req *dto.UpdateNoteRequest) error {
	logger.Log(ctx).Debug(ctx, LogServiceUpdateNote, zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	if _, err := s.notes.UpdateNote(ctx, userID, noteID, req.Title, req.Content); err != nil {
		return fmt.Errorf("%s: %w", ErrorUpdateNoteFailed, err)
	}
	return nil
}

// ShareNote выдает доступ к заметке.
func (s *NotesServiceImpl) ShareNote(ctx context.Context, userID int64, req *dto.ShareNoteRequest) error {
	logger.Log(ctx).Debug(ctx, LogServiceShareNote, zap.Int64("userID", userID), zap.Int64("noteID", req.NoteID))

	if _, err := s.notes.ShareNote(ctx, userID, req.NoteID, req.UserIDs); err != nil {
		return fmt.Errorf("%s: %w", ErrorShareNoteFailed, err)
	}
	return nil
}

// NoteHistory возвращает историю изменений заметки.
func (s *NotesServiceImpl) NoteHistory(ctx context.Context, userID, noteID int64) ([]*dto.NoteVersion, error) {
	logger.Log(ctx).Debug(ctx, LogServiceNoteHistory, zap.Int64("userID", userID), zap.Int64("noteID", noteID))

	versions, err := s.notes.NoteHistory(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorNoteHistoryFailed, err)
	}

	out := make([]*dto.NoteVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, &dto.NoteVersion{
			ChangedBy: v.ActorName,
			Content:   v.Content,
			Timestamp: v.CreatedAt,
		})
	}
	return out, nil
}

func convertNote(n *entities.Note) *dto.Note {
	shared := n.SharedWith
	if shared == nil {
		shared = []int64{}
	}
	return &dto.Note{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Owner:      n.OwnerID,
		SharedWith: shared,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
