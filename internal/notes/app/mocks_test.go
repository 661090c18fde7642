package app_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"sharenote/internal/notes/domain/entities"
	"sharenote/internal/notes/ports/repositories"
)

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID int64) (*entities.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListAccessible(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) UpdateContent(
	ctx context.Context,
	noteID, actorID int64,
	fn repositories.UpdateFunc,
) (*entities.NoteVersion, error) {
	args := m.Called(ctx, noteID, actorID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NoteVersion), args.Error(1)
}

func (m *mockNoteRepository) AddShares(ctx context.Context, noteID int64, userIDs []int64) (int64, error) {
	args := m.Called(ctx, noteID, userIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNoteRepository) ListVersions(ctx context.Context, noteID int64) ([]*entities.NoteVersion, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.NoteVersion), args.Error(1)
}

// memoryRepository хранит заметки в памяти с той же семантикой, что и Postgres-репозиторий.
type memoryRepository struct {
	mu       sync.Mutex
	users    map[int64]string
	notes    map[int64]*entities.Note
	versions []*entities.NoteVersion
	nextID   int64
	clock    time.Time
}

func newMemoryRepository(users map[int64]string) *memoryRepository {
	return &memoryRepository{
		users: users,
		notes: make(map[int64]*entities.Note),
		clock: time.Now().UTC(),
	}
}

func (r *memoryRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func clone(n *entities.Note) *entities.Note {
	c := *n
	c.SharedWith = append([]int64{}, n.SharedWith...)
	return &c
}

func (r *memoryRepository) Create(_ context.Context, note *entities.Note) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := clone(note)
	stored.ID = r.nextID
	r.notes[stored.ID] = stored
	return clone(stored), nil
}

func (r *memoryRepository) GetByID(_ context.Context, noteID int64) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return nil, repositories.ErrNoteNotFound
	}
	return clone(n), nil
}

func (r *memoryRepository) ListAccessible(_ context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entities.Note, 0)
	for _, n := range r.notes {
		if entities.Classify(userID, n) != entities.AccessNone {
			out = append(out, clone(n))
		}
	}
	total := len(out)
	if offset >= total {
		return []*entities.Note{}, total, nil
	}
	end := min(offset+limit, total)
	return out[offset:end], total, nil
}

func (r *memoryRepository) UpdateContent(
	_ context.Context,
	noteID, actorID int64,
	fn repositories.UpdateFunc,
) (*entities.NoteVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return nil, repositories.ErrNoteNotFound
	}

	title, content, err := fn(clone(n))
	if err != nil {
		return nil, err
	}

	ts := r.tick()
	v := &entities.NoteVersion{
		ID:        int64(len(r.versions) + 1),
		NoteID:    noteID,
		ActorID:   actorID,
		ActorName: r.users[actorID],
		Content:   content,
		CreatedAt: ts,
	}
	r.versions = append(r.versions, v)
	n.Title, n.Content, n.UpdatedAt = title, content, ts
	return v, nil
}

func (r *memoryRepository) AddShares(_ context.Context, noteID int64, userIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok {
		return 0, repositories.ErrNoteNotFound
	}

	var added int64
	for _, id := range userIDs {
		if _, known := r.users[id]; !known || n.IsSharedWith(id) {
			continue
		}
		n.SharedWith = append(n.SharedWith, id)
		added++
	}
	return added, nil
}

func (r *memoryRepository) ListVersions(_ context.Context, noteID int64) ([]*entities.NoteVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entities.NoteVersion, 0)
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].NoteID == noteID {
			v := *r.versions[i]
			out = append(out, &v)
		}
	}
	return out, nil
}
