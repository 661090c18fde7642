package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sharenote/internal/notes/app"
	"sharenote/internal/notes/domain/entities"
	"sharenote/internal/notes/ports/api"
	"sharenote/internal/notes/ports/repositories"
	"sharenote/pkg/validation"
)

const (
	userA int64 = 1
	userB int64 = 2
	userC int64 = 3
	userD int64 = 4
)

var errDB = errors.New("database error")

// newScenario создает заметку пользователя A над хранилищем в памяти.
func newScenario(t *testing.T) (*memoryRepository, *entities.Note, api.NoteUseCase) {
	t.Helper()

	repo := newMemoryRepository(map[int64]string{userA: "alice", userB: "bob", userC: "carol", userD: "dave"})
	uc := app.NewNoteUseCase(repo)

	note, err := uc.CreateNote(context.Background(), userA, "Test Note", "This is a test note.")
	require.NoError(t, err)
	return repo, note, uc
}

func TestNoteScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns owner and empty share set", func(t *testing.T) {
		repo, note, _ := newScenario(t)

		assert.Positive(t, note.ID)
		assert.Equal(t, userA, note.OwnerID)
		assert.Empty(t, note.SharedWith)
		assert.Equal(t, "Test Note", note.Title)
		assert.Empty(t, repo.versions)
	})

	t.Run("stranger cannot read", func(t *testing.T) {
		_, note, uc := newScenario(t)

		got, err := uc.GetNote(ctx, userB, note.ID)
		assert.ErrorIs(t, err, app.ErrForbidden)
		assert.Nil(t, got)
		assert.NotContains(t, err.Error(), note.Content)
	})

	t.Run("share grants access and is idempotent", func(t *testing.T) {
		_, note, uc := newScenario(t)

		added, err := uc.ShareNote(ctx, userA, note.ID, []int64{userB, userC})
		require.NoError(t, err)
		assert.Equal(t, int64(2), added)

		added, err = uc.ShareNote(ctx, userA, note.ID, []int64{userB})
		require.NoError(t, err)
		assert.Zero(t, added)

		got, err := uc.GetNote(ctx, userB, note.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{userB, userC}, got.SharedWith)
		assert.Equal(t, entities.AccessSharedViewer, entities.Classify(userB, got))
		assert.Equal(t, entities.AccessSharedViewer, entities.Classify(userC, got))
	})

	t.Run("unknown share targets are ignored", func(t *testing.T) {
		_, note, uc := newScenario(t)

		added, err := uc.ShareNote(ctx, userA, note.ID, []int64{userB, 999})
		require.NoError(t, err)
		assert.Equal(t, int64(1), added)

		got, err := uc.GetNote(ctx, userA, note.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{userB}, got.SharedWith)
	})

	t.Run("shared viewer update appends one version", func(t *testing.T) {
		repo, note, uc := newScenario(t)
		_, err := uc.ShareNote(ctx, userA, note.ID, []int64{userB})
		require.NoError(t, err)

		version, err := uc.UpdateNote(ctx, userB, note.ID, "", "Updated content.")
		require.NoError(t, err)
		assert.Equal(t, userB, version.ActorID)
		assert.Equal(t, "Updated content.", version.Content)

		require.Len(t, repo.versions, 1)
		got, err := uc.GetNote(ctx, userA, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated content.", got.Content)
		assert.Equal(t, "Test Note", got.Title)
		assert.True(t, got.UpdatedAt.After(note.UpdatedAt))
	})

	t.Run("history is newest first", func(t *testing.T) {
		_, note, uc := newScenario(t)
		_, err := uc.ShareNote(ctx, userA, note.ID, []int64{userB})
		require.NoError(t, err)

		_, err = uc.UpdateNote(ctx, userA, note.ID, "First", "by alice")
		require.NoError(t, err)
		_, err = uc.UpdateNote(ctx, userB, note.ID, "", "by bob")
		require.NoError(t, err)

		history, err := uc.NoteHistory(ctx, userA, note.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "bob", history[0].ActorName)
		assert.Equal(t, "by bob", history[0].Content)
		assert.Equal(t, "alice", history[1].ActorName)
		assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))
	})

	t.Run("stranger cannot read history", func(t *testing.T) {
		_, note, uc := newScenario(t)
		_, err := uc.UpdateNote(ctx, userA, note.ID, "", "changed")
		require.NoError(t, err)

		history, err := uc.NoteHistory(ctx, userD, note.ID)
		assert.ErrorIs(t, err, app.ErrForbidden)
		assert.Empty(t, history)
	})
}

func TestUpdateNoteRules(t *testing.T) {
	ctx := context.Background()

	t.Run("stranger is forbidden and nothing is written", func(t *testing.T) {
		repo, note, uc := newScenario(t)

		_, err := uc.UpdateNote(ctx, userD, note.ID, "", "hijack")
		assert.ErrorIs(t, err, app.ErrForbidden)
		assert.Empty(t, repo.versions)

		got, err := uc.GetNote(ctx, userA, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "This is a test note.", got.Content)
	})

	t.Run("forbidden wins over invalid input", func(t *testing.T) {
		_, note, uc := newScenario(t)

		_, err := uc.UpdateNote(ctx, userD, note.ID, "", "")
		assert.ErrorIs(t, err, app.ErrForbidden)
		assert.NotErrorIs(t, err, validation.ErrInvalid)
	})

	t.Run("missing content is a validation error", func(t *testing.T) {
		repo, note, uc := newScenario(t)

		_, err := uc.UpdateNote(ctx, userA, note.ID, "t", "   ")
		require.ErrorIs(t, err, validation.ErrInvalid)

		var vErr *validation.Error
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "content")
		assert.Empty(t, repo.versions)
	})

	t.Run("title too long", func(t *testing.T) {
		_, note, uc := newScenario(t)

		_, err := uc.UpdateNote(ctx, userA, note.ID, strings.Repeat("x", 256), "body")
		assert.ErrorIs(t, err, validation.ErrInvalid)
	})

	t.Run("missing note", func(t *testing.T) {
		_, _, uc := newScenario(t)

		_, err := uc.UpdateNote(ctx, userA, 404, "", "body")
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("UpdateContent", mock.Anything, int64(1), userA, mock.Anything).Return(nil, errDB).Once()

		_, err := app.NewNoteUseCase(repo).UpdateNote(ctx, userA, 1, "", "body")
		assert.ErrorIs(t, err, errDB)
		repo.AssertExpectations(t)
	})
}

func TestShareNoteRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  int64
		noteID  func(created int64) int64
		userIDs []int64
		wantErr error
	}{
		{
			name:    "empty target list",
			caller:  userA,
			noteID:  func(id int64) int64 { return id },
			userIDs: []int64{},
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "non-positive target",
			caller:  userA,
			noteID:  func(id int64) int64 { return id },
			userIDs: []int64{userB, 0},
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "non-positive note id",
			caller:  userA,
			noteID:  func(int64) int64 { return 0 },
			userIDs: []int64{userB},
			wantErr: validation.ErrInvalid,
		},
		{
			name:    "missing note",
			caller:  userA,
			noteID:  func(int64) int64 { return 404 },
			userIDs: []int64{userB},
			wantErr: app.ErrNotFound,
		},
		{
			name:    "shared viewer cannot reshare",
			caller:  userB,
			noteID:  func(id int64) int64 { return id },
			userIDs: []int64{userC},
			wantErr: app.ErrForbidden,
		},
		{
			name:    "stranger cannot share",
			caller:  userD,
			noteID:  func(id int64) int64 { return id },
			userIDs: []int64{userD},
			wantErr: app.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, note, uc := newScenario(t)
			_, err := uc.ShareNote(ctx, userA, note.ID, []int64{userB})
			require.NoError(t, err)

			_, err = uc.ShareNote(ctx, tt.caller, tt.noteID(note.ID), tt.userIDs)
			assert.ErrorIs(t, err, tt.wantErr)

			got, err := uc.GetNote(ctx, userA, note.ID)
			require.NoError(t, err)
			assert.Equal(t, []int64{userB}, got.SharedWith)
		})
	}
}

func TestCreateNoteValidation(t *testing.T) {
	ctx := context.Background()
	repo := new(mockNoteRepository)
	uc := app.NewNoteUseCase(repo)

	tests := []struct {
		name    string
		title   string
		content string
		fields  []string
	}{
		{name: "missing title", content: "body", fields: []string{"title"}},
		{name: "blank content", title: "t", content: "  ", fields: []string{"content"}},
		{name: "title too long", title: strings.Repeat("a", 256), content: "body", fields: []string{"title"}},
		{name: "both missing", fields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := uc.CreateNote(ctx, userA, tt.title, tt.content)
			assert.Nil(t, note)

			var vErr *validation.Error
			require.ErrorAs(t, err, &vErr)
			for _, f := range tt.fields {
				assert.Contains(t, vErr.Fields, f)
			}
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateNoteRepositoryError(t *testing.T) {
	repo := new(mockNoteRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
		return n.OwnerID == userA && n.Title == "t" && n.Content == "c"
	})).Return(nil, errDB).Once()

	_, err := app.NewNoteUseCase(repo).CreateNote(context.Background(), userA, " t ", "c")
	assert.ErrorIs(t, err, errDB)
	repo.AssertExpectations(t)
}

func TestGetNoteErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "not found", repoErr: repositories.ErrNoteNotFound, wantErr: app.ErrNotFound},
		{name: "database error", repoErr: errDB, wantErr: errDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			repo.On("GetByID", mock.Anything, int64(5)).Return(nil, tt.repoErr).Twice()
			uc := app.NewNoteUseCase(repo)

			_, err := uc.GetNote(ctx, userA, 5)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = uc.NoteHistory(ctx, userA, 5)
			assert.ErrorIs(t, err, tt.wantErr)

			repo.AssertExpectations(t)
			repo.AssertNotCalled(t, "ListVersions", mock.Anything, mock.Anything)
		})
	}
}

func TestNoteHistoryRepositoryError(t *testing.T) {
	repo := new(mockNoteRepository)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&entities.Note{ID: 5, OwnerID: userA}, nil).Once()
	repo.On("ListVersions", mock.Anything, int64(5)).Return(nil, errDB).Once()

	_, err := app.NewNoteUseCase(repo).NoteHistory(context.Background(), userA, 5)
	assert.ErrorIs(t, err, errDB)
	repo.AssertExpectations(t)
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("owned and shared notes", func(t *testing.T) {
		repo, note, uc := newScenario(t)
		other, err := uc.CreateNote(ctx, userB, "b", "b")
		require.NoError(t, err)
		_, err = uc.CreateNote(ctx, userC, "c", "c")
		require.NoError(t, err)
		_, err = uc.ShareNote(ctx, userB, other.ID, []int64{userA})
		require.NoError(t, err)

		notes, total, err := uc.ListNotes(ctx, userA, 0, -5)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		ids := make([]int64, 0, len(notes))
		for _, n := range notes {
			ids = append(ids, n.ID)
		}
		assert.ElementsMatch(t, []int64{note.ID, other.ID}, ids)
		assert.Len(t, repo.notes, 3)
	})

	t.Run("limits are normalized", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("ListAccessible", mock.Anything, userA, app.DefaultListLimit, 0).Return([]*entities.Note{}, 0, nil).Once()
		repo.On("ListAccessible", mock.Anything, userA, app.MaxListLimit, 20).Return([]*entities.Note{}, 0, nil).Once()
		repo.On("ListAccessible", mock.Anything, userA, 5, 0).Return(nil, 0, errDB).Once()
		uc := app.NewNoteUseCase(repo)

		_, _, err := uc.ListNotes(ctx, userA, -1, -1)
		require.NoError(t, err)
		_, _, err = uc.ListNotes(ctx, userA, 1000, 20)
		require.NoError(t, err)
		_, _, err = uc.ListNotes(ctx, userA, 5, 0)
		assert.ErrorIs(t, err, errDB)

		repo.AssertExpectations(t)
	})
}
