// Package entities описывает доменные сущности сервиса заметок.
package entities

import "time"

// Note представляет собой заметку пользователя.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OwnerID    int64     `json:"owner"`
	SharedWith []int64   `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewNote создает новую заметку владельца без получателей.
func NewNote(ownerID int64, title, content string) *Note {
	now := time.Now().UTC()
	return &Note{
		OwnerID:    ownerID,
		Title:      title,
		Content:    content,
		SharedWith: []int64{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsSharedWith проверяет, выдан ли пользователю доступ на чтение.
func (n *Note) IsSharedWith(userID int64) bool {
	for _, id := range n.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// NoteVersion - снимок содержимого заметки после изменения.
type NoteVersion struct {
	ID        int64
	NoteID    int64
	ActorID   int64
	ActorName string
	Content   string
	CreatedAt time.Time
}
