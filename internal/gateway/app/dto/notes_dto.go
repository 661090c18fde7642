package dto

import (
	"time"
)

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest содержит данные для обновления заметки. Пустой заголовок не меняется.
type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ShareNoteRequest содержит данные для выдачи доступа к заметке.
type ShareNoteRequest struct {
	NoteID  int64   `json:"note_id"`
	UserIDs []int64 `json:"user_ids"`
}

// Note представляет заметку.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Owner      int64     `json:"owner"`
	SharedWith []int64   `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListNotesResponse содержит список заметок и информацию о пагинации.
type ListNotesResponse struct {
	Notes      []*Note `json:"notes"`
	TotalCount int     `json:"total_count"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
}

// NoteVersion - запись истории изменений заметки.
type NoteVersion struct {
	ChangedBy string    `json:"changed_by"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
