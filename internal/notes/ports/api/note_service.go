// Package api описывает входной порт сервиса заметок.
package api

import (
	"context"

	"sharenote/internal/notes/domain/entities"
)

// NoteUseCase определяет операции над заметками от имени пользователя.
type NoteUseCase interface {
	CreateNote(ctx context.Context, userID int64, title, content string) (*entities.Note, error)

	GetNote(ctx context.Context, userID, noteID int64) (*entities.Note, error)

	ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error)

	UpdateNote(ctx context.Context, userID, noteID int64, title, content string) (*entities.NoteVersion, error)

	ShareNote(ctx context.Context, userID, noteID int64, userIDs []int64) (int64, error)

	NoteHistory(ctx context.Context, userID, noteID int64) ([]*entities.NoteVersion, error)
}
