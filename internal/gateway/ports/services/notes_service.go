package services

import (
	"context"

	"sharenote/internal/gateway/app/dto"
)

// NotesService определяет интерфейс для работы с заметками от имени пользователя.
type NotesService interface {
	CreateNote(ctx context.Context, userID int64, req *dto.CreateNoteRequest) (*dto.Note, error)

	GetNote(ctx context.Context, userID, noteID int64) (*dto.Note, error)

	ListNotes(ctx context.Context, userID int64, limit, offset int) (*dto.ListNotesResponse, error)

	UpdateNote(ctx context.Context, userID, noteID int64, req *dto.UpdateNoteRequest) error

	ShareNote(ctx context.Context, userID int64, req *dto.ShareNoteRequest) error

	NoteHistory(ctx context.Context, userID, noteID int64) ([]*dto.NoteVersion, error)
}
