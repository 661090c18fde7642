package cache

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sharenote/internal/notes/domain/entities"
	"sharenote/internal/notes/ports/cache"
	"sharenote/internal/notes/ports/repositories"
	"sharenote/pkg/logger"
	"sharenote/pkg/resilience"
)

const noteKeyPrefix = "notes:note:"

var invalidateRetry = resilience.RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 20 * time.Millisecond,
	MaxBackoff:     100 * time.Millisecond,
	BackoffFactor:  2.0,
}

// NoteKey возвращает ключ кэша для заметки.
func NoteKey(noteID int64) string {
	return noteKeyPrefix + strconv.FormatInt(noteID, 10)
}

// NoteRepository кэширует чтение заметок по ID и сбрасывает кэш после
// изменения содержимого или списка доступа. Ошибки кэша не прерывают запрос.
// Заполнение кэша после промаха записывается, только если поколение ключа не
// изменилось с начала чтения из базы.
type NoteRepository struct {
	repositories.NoteRepository
	cache cache.Cache
	ttl   time.Duration
	retry *resilience.Retry
}

// NewNoteRepository оборачивает репозиторий заметок кэшем.
func NewNoteRepository(next repositories.NoteRepository, c cache.Cache, ttl time.Duration) repositories.NoteRepository {
	return &NoteRepository{
		NoteRepository: next,
		cache:          c,
		ttl:            ttl,
		retry:          resilience.NewRetry("note-cache-invalidate", invalidateRetry),
	}
}

// GetByID читает заметку из кэша, при промахе из базы.
func (r *NoteRepository) GetByID(ctx context.Context, noteID int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "CachedNoteRepository.GetByID"), zap.Int64("noteID", noteID))
	key := NoteKey(noteID)

	if data, found, err := r.cache.Get(ctx, key); err == nil && found {
		note, decErr := decodeNote(data)
		if decErr == nil {
			log.Debug(ctx, "note cache hit")
			return note, nil
		}
		log.Warn(ctx, "dropping undecodable cache entry", zap.Error(decErr))
		_ = r.cache.Delete(ctx, key)
	}

	generation, genErr := r.cache.Generation(ctx, key)

	note, err := r.NoteRepository.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return note, nil
	}

	data, err := encodeNote(note)
	if err != nil {
		log.Warn(ctx, "failed to encode note for cache", zap.Error(err))
		return note, nil
	}
	if stored, err := r.cache.SetIfGeneration(ctx, key, generation, data, r.ttl); err == nil && !stored {
		log.Debug(ctx, "note changed during load, cache fill skipped")
	}

	return note, nil
}

// UpdateContent обновляет заметку и сбрасывает ее запись в кэше.
func (r *NoteRepository) UpdateContent(
	ctx context.Context,
	noteID, actorID int64,
	fn repositories.UpdateFunc,
) (*entities.NoteVersion, error) {
	version, err := r.NoteRepository.UpdateContent(ctx, noteID, actorID, fn)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, noteID)
	return version, nil
}

// AddShares выдает доступ и сбрасывает запись заметки в кэше.
func (r *NoteRepository) AddShares(ctx context.Context, noteID int64, userIDs []int64) (int64, error) {
	added, err := r.NoteRepository.AddShares(ctx, noteID, userIDs)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx, noteID)
	return added, nil
}

func (r *NoteRepository) invalidate(ctx context.Context, noteID int64) {
	key := NoteKey(noteID)
	err := r.retry.Execute(ctx, func() error {
		return r.cache.Invalidate(ctx, key)
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, "failed to invalidate note cache",
			zap.Int64("noteID", noteID), zap.Error(err))
	}
}
