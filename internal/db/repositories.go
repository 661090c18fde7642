package db

import (
	"time"

	authpostgres "sharenote/internal/auth/adapters/postgres"
	authrepos "sharenote/internal/auth/ports/repositories"
	notescache "sharenote/internal/notes/adapters/cache"
	notespostgres "sharenote/internal/notes/adapters/postgres"
	"sharenote/internal/notes/ports/cache"
	notesrepos "sharenote/internal/notes/ports/repositories"
	pgdb "sharenote/pkg/db/postgres"
)

// Repositories - репозитории сервиса поверх одного пула соединений.
type Repositories struct {
	Users  authrepos.UserRepository
	Tokens authrepos.TokenRepository
	Notes  notesrepos.NoteRepository
}

// NewRepositories создает репозитории Postgres.
func NewRepositories(pool pgdb.Pool) *Repositories {
	return &Repositories{
		Users:  authpostgres.NewUserRepository(pool),
		Tokens: authpostgres.NewTokenRepository(pool),
		Notes:  notespostgres.NewNoteRepository(pool),
	}
}

// WithNoteCache оборачивает репозиторий заметок кэшем чтения.
func (r *Repositories) WithNoteCache(c cache.Cache, ttl time.Duration) *Repositories {
	r.Notes = notescache.NewNoteRepository(r.Notes, c, ttl)
	return r
}
