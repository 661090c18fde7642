// Package postgres реализует репозиторий заметок поверх pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sharenote/internal/notes/domain/entities"
	"sharenote/internal/notes/ports/repositories"
	pgdb "sharenote/pkg/db/postgres"
	"sharenote/pkg/logger"
)

const noteColumns = `n.id, n.title, n.content, n.owner_id,
        ARRAY(SELECT s.user_id FROM note_shares s WHERE s.note_id = n.id ORDER BY s.user_id),
        n.created_at, n.updated_at`

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool pgdb.Pool
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool pgdb.Pool) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.OwnerID,
		&note.SharedWith,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if note.SharedWith == nil {
		note.SharedWith = []int64{}
	}
	return &note, nil
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.Int64("ownerID", note.OwnerID))

	created := *note
	created.SharedWith = []int64{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notes (title, content, owner_id, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id`,
		note.Title, note.Content, note.OwnerID, note.CreatedAt, note.UpdatedAt,
	).Scan(&created.ID)
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", created.ID))
	return &created, nil
}

// GetByID получает заметку вместе со списком получателей доступа.
func (r *NoteRepository) GetByID(ctx context.Context, noteID int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.Int64("noteID", noteID))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+`
         FROM notes n
         WHERE n.id = $1`,
		noteID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", noteID))
			return nil, repositories.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListAccessible получает заметки, которыми пользователь владеет или которые ему доступны.
func (r *NoteRepository) ListAccessible(ctx context.Context, userID int64, limit, offset int) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListAccessible"))
	log.Debug(ctx, "listing notes", zap.Int64("userID", userID), zap.Int("limit", limit), zap.Int("offset", offset))

	const accessible = `n.owner_id = $1
            OR EXISTS (SELECT 1 FROM note_shares s WHERE s.note_id = n.id AND s.user_id = $1)`

	var totalCount int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes n WHERE `+accessible,
		userID,
	).Scan(&totalCount)
	if err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+`
         FROM notes n
         WHERE `+accessible+`
         ORDER BY n.updated_at DESC, n.id DESC
         LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, totalCount, nil
}

// UpdateContent в одной транзакции блокирует заметку, вызывает fn, пишет
// версию и заменяет живое содержимое. Ошибка любого шага откатывает обе записи.
func (r *NoteRepository) UpdateContent(
	ctx context.Context,
	noteID, actorID int64,
	fn repositories.UpdateFunc,
) (*entities.NoteVersion, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.UpdateContent"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", noteID), zap.Int64("actorID", actorID))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	note, err := scanNote(tx.QueryRow(ctx,
		`SELECT `+noteColumns+`
         FROM notes n
         WHERE n.id = $1
         FOR UPDATE OF n`,
		noteID,
	))
	if err != nil {
		rollback(ctx, tx)
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", noteID))
			return nil, repositories.ErrNoteNotFound
		}
		log.Error(ctx, "failed to lock note", zap.Error(err))
		return nil, fmt.Errorf("failed to lock note: %w", err)
	}

	title, content, err := fn(note)
	if err != nil {
		rollback(ctx, tx)
		return nil, err
	}

	version := &entities.NoteVersion{NoteID: noteID, ActorID: actorID, Content: content}
	err = tx.QueryRow(ctx,
		`INSERT INTO note_versions (note_id, actor_id, content, created_at)
         VALUES ($1, $2, $3, clock_timestamp())
         RETURNING id, created_at`,
		noteID, actorID, content,
	).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "failed to append note version", zap.Error(err))
		return nil, fmt.Errorf("failed to append note version: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		title, content, version.CreatedAt, noteID,
	); err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug(ctx, "note updated", zap.Int64("noteID", noteID), zap.Int64("versionID", version.ID))
	return version, nil
}

// AddShares выдает доступ существующим пользователям. Неизвестные ID и
// повторные выдачи пропускаются. Возвращает число новых записей.
func (r *NoteRepository) AddShares(ctx context.Context, noteID int64, userIDs []int64) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.AddShares"))
	log.Debug(ctx, "sharing note", zap.Int64("noteID", noteID), zap.Int64s("userIDs", userIDs))

	result, err := r.pool.Exec(ctx,
		`INSERT INTO note_shares (note_id, user_id)
         SELECT $1, u.id FROM users u WHERE u.id = ANY($2)
         ON CONFLICT DO NOTHING`,
		noteID, userIDs,
	)
	if err != nil {
		log.Error(ctx, "failed to share note", zap.Error(err))
		return 0, fmt.Errorf("failed to share note: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListVersions возвращает историю изменений заметки, новые записи первыми.
func (r *NoteRepository) ListVersions(ctx context.Context, noteID int64) ([]*entities.NoteVersion, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListVersions"))
	log.Debug(ctx, "listing note versions", zap.Int64("noteID", noteID))

	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.note_id, v.actor_id, u.username, v.content, v.created_at
         FROM note_versions v
         JOIN users u ON u.id = v.actor_id
         WHERE v.note_id = $1
         ORDER BY v.created_at DESC, v.id DESC`,
		noteID,
	)
	if err != nil {
		log.Error(ctx, "failed to list note versions", zap.Error(err))
		return nil, fmt.Errorf("failed to list note versions: %w", err)
	}
	defer rows.Close()

	versions := make([]*entities.NoteVersion, 0)
	for rows.Next() {
		var v entities.NoteVersion
		if err := rows.Scan(&v.ID, &v.NoteID, &v.ActorID, &v.ActorName, &v.Content, &v.CreatedAt); err != nil {
			log.Error(ctx, "failed to scan note version", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note version: %w", err)
		}
		versions = append(versions, &v)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return versions, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Log(ctx).Error(ctx, "failed to rollback transaction", zap.Error(err))
	}
}
