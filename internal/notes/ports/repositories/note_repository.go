// Package repositories определяет интерфейсы хранилищ сервиса заметок.
package repositories

import (
	"context"
	"errors"

	"sharenote/internal/notes/domain/entities"
)

// ErrNoteNotFound возвращается, если заметки с таким ID нет.
var ErrNoteNotFound = errors.New("note not found")

// UpdateFunc вызывается внутри транзакции для заблокированной заметки и
// возвращает новые заголовок и содержимое. Ошибка откатывает транзакцию.
type UpdateFunc func(note *entities.Note) (title, content string, err error)

// NoteRepository определяет интерфейс для работы с репозиторием заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, noteID int64) (*entities.Note, error)
	ListAccessible(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error)
	UpdateContent(ctx context.Context, noteID, actorID int64, fn UpdateFunc) (*entities.NoteVersion, error)
	AddShares(ctx context.Context, noteID int64, userIDs []int64) (int64, error)
	ListVersions(ctx context.Context, noteID int64) ([]*entities.NoteVersion, error)
}
