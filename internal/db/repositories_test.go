package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authpostgres "sharenote/internal/auth/adapters/postgres"
	"sharenote/internal/db"
	notescache "sharenote/internal/notes/adapters/cache"
	notespostgres "sharenote/internal/notes/adapters/postgres"
)

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (nopCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (nopCache) Delete(context.Context, ...string) error {
	return nil
}

func (nopCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (nopCache) SetIfGeneration(context.Context, string, int64, []byte, time.Duration) (bool, error) {
	return true, nil
}

func (nopCache) Invalidate(context.Context, string) error {
	return nil
}

func (nopCache) Close() error {
	return nil
}

func TestRepositories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repos := db.NewRepositories(mock)
	assert.IsType(t, &authpostgres.UserRepository{}, repos.Users)
	assert.IsType(t, &authpostgres.TokenRepository{}, repos.Tokens)
	assert.IsType(t, &notespostgres.NoteRepository{}, repos.Notes)

	repos.WithNoteCache(nopCache{}, time.Minute)
	assert.IsType(t, &notescache.NoteRepository{}, repos.Notes)
}
