package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authdomain "sharenote/internal/auth/domain/services"
	"sharenote/internal/gateway/app/dto"
	"sharenote/internal/gateway/app/services"
	notesapp "sharenote/internal/notes/app"
	"sharenote/internal/notes/domain/entities"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, username, password string) (*authdomain.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, username, password string) (*authdomain.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*authdomain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authdomain.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthUseCase) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, userID int64, username string) (string, time.Time, error) {
	args := m.Called(ctx, userID, username)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

type mockNoteUseCase struct {
	mock.Mock
}

func (m *mockNoteUseCase) CreateNote(ctx context.Context, userID int64, title, content string) (*entities.Note, error) {
	args := m.Called(ctx, userID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteUseCase) GetNote(ctx context.Context, userID, noteID int64) (*entities.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteUseCase) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteUseCase) UpdateNote(ctx context.Context, userID, noteID int64, title, content string) (*entities.NoteVersion, error) {
	args := m.Called(ctx, userID, noteID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NoteVersion), args.Error(1)
}

func (m *mockNoteUseCase) ShareNote(ctx context.Context, userID, noteID int64, userIDs []int64) (int64, error) {
	args := m.Called(ctx, userID, noteID, userIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNoteUseCase) NoteHistory(ctx context.Context, userID, noteID int64) ([]*entities.NoteVersion, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.NoteVersion), args.Error(1)
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Minute)
	pair := &authdomain.TokenPair{UserID: 1, Username: "alice", AccessToken: "a", RefreshToken: "r", ExpiresAt: expires}

	t.Run("register converts pair", func(t *testing.T) {
		auth := new(mockAuthUseCase)
		auth.On("Register", ctx, "alice", "password1").Return(pair, nil).Once()

		resp, err := services.NewAuthService(auth, new(mockTokenService)).
			Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, &dto.TokenResponse{UserID: 1, Username: "alice", AccessToken: "a", RefreshToken: "r", ExpiresAt: expires}, resp)
		auth.AssertExpectations(t)
	})

	t.Run("login keeps domain error", func(t *testing.T) {
		auth := new(mockAuthUseCase)
		auth.On("Login", ctx, "alice", "bad").Return(nil, authdomain.ErrInvalidCredentials).Once()

		resp, err := services.NewAuthService(auth, new(mockTokenService)).
			Login(ctx, &dto.LoginRequest{Username: "alice", Password: "bad"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	})

	t.Run("refresh and logout", func(t *testing.T) {
		auth := new(mockAuthUseCase)
		auth.On("RefreshTokens", ctx, "r").Return(pair, nil).Once()
		auth.On("Logout", ctx, "r").Return(nil).Once()
		svc := services.NewAuthService(auth, new(mockTokenService))

		resp, err := svc.RefreshTokens(ctx, &dto.RefreshRequest{RefreshToken: "r"})
		require.NoError(t, err)
		assert.Equal(t, "a", resp.AccessToken)
		require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: "r"}))
		auth.AssertExpectations(t)
	})

	t.Run("validate token", func(t *testing.T) {
		tokens := new(mockTokenService)
		tokens.On("ValidateAccessToken", ctx, "good").Return(int64(5), nil).Once()
		tokens.On("ValidateAccessToken", ctx, "bad").Return(int64(0), authdomain.ErrInvalidJWTToken).Once()
		svc := services.NewAuthService(new(mockAuthUseCase), tokens)

		userID, err := svc.ValidateToken(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, int64(5), userID)

		_, err = svc.ValidateToken(ctx, "bad")
		assert.ErrorIs(t, err, authdomain.ErrInvalidJWTToken)
	})
}

func TestNotesService(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create converts note with empty share list", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		uc.On("CreateNote", ctx, int64(1), "title", "body").Return(&entities.Note{
			ID: 10, Title: "title", Content: "body", OwnerID: 1, CreatedAt: now, UpdatedAt: now,
		}, nil).Once()

		note, err := services.NewNotesService(uc).CreateNote(ctx, 1, &dto.CreateNoteRequest{Title: "title", Content: "body"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), note.ID)
		assert.Equal(t, int64(1), note.Owner)
		assert.NotNil(t, note.SharedWith)
		assert.Empty(t, note.SharedWith)
	})

	t.Run("get keeps access errors", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		uc.On("GetNote", ctx, int64(2), int64(10)).Return(nil, notesapp.ErrForbidden).Once()

		_, err := services.NewNotesService(uc).GetNote(ctx, 2, 10)
		assert.ErrorIs(t, err, notesapp.ErrForbidden)
	})

	t.Run("list carries paging", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		uc.On("ListNotes", ctx, int64(1), 5, 10).Return([]*entities.Note{
			{ID: 1, OwnerID: 1, SharedWith: []int64{2}},
		}, 11, nil).Once()

		resp, err := services.NewNotesService(uc).ListNotes(ctx, 1, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, 11, resp.TotalCount)
		assert.Equal(t, 5, resp.Limit)
		assert.Equal(t, 10, resp.Offset)
		require.Len(t, resp.Notes, 1)
		assert.Equal(t, []int64{2}, resp.Notes[0].SharedWith)
	})

	t.Run("update and share", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		uc.On("UpdateNote", ctx, int64(1), int64(10), "", "new").Return(&entities.NoteVersion{ID: 1}, nil).Once()
		uc.On("ShareNote", ctx, int64(1), int64(10), []int64{2}).Return(int64(1), nil).Once()
		svc := services.NewNotesService(uc)

		require.NoError(t, svc.UpdateNote(ctx, 1, 10, &dto.UpdateNoteRequest{Content: "new"}))
		require.NoError(t, svc.ShareNote(ctx, 1, &dto.ShareNoteRequest{NoteID: 10, UserIDs: []int64{2}}))
		uc.AssertExpectations(t)
	})

	t.Run("history maps actor names", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		uc.On("NoteHistory", ctx, int64(1), int64(10)).Return([]*entities.NoteVersion{
			{ID: 2, NoteID: 10, ActorID: 2, ActorName: "bob", Content: "v2", CreatedAt: now},
		}, nil).Once()

		history, err := services.NewNotesService(uc).NoteHistory(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []*dto.NoteVersion{{ChangedBy: "bob", Content: "v2", Timestamp: now}}, history)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		uc := new(mockNoteUseCase)
		boom := errors.New("boom")
		uc.On("NoteHistory", ctx, int64(1), int64(10)).Return(nil, boom).Once()

		_, err := services.NewNotesService(uc).NoteHistory(ctx, 1, 10)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), services.ErrorNoteHistoryFailed)
	})
}
