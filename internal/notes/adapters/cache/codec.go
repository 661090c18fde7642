package cache

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"sharenote/internal/notes/domain/entities"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}
}

// cachedNote - представление заметки в кэше. Целочисленные ключи сокращают запись.
type cachedNote struct {
	ID         int64     `cbor:"1,keyasint"`
	Title      string    `cbor:"2,keyasint"`
	Content    string    `cbor:"3,keyasint"`
	OwnerID    int64     `cbor:"4,keyasint"`
	SharedWith []int64   `cbor:"5,keyasint"`
	CreatedAt  time.Time `cbor:"6,keyasint"`
	UpdatedAt  time.Time `cbor:"7,keyasint"`
}

func encodeNote(note *entities.Note) ([]byte, error) {
	data, err := encMode.Marshal(cachedNote{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		OwnerID:    note.OwnerID,
		SharedWith: note.SharedWith,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}
	return data, nil
}

func decodeNote(data []byte) (*entities.Note, error) {
	var c cachedNote
	if err := decMode.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode note: %w", err)
	}
	if c.SharedWith == nil {
		c.SharedWith = []int64{}
	}
	return &entities.Note{
		ID:         c.ID,
		Title:      c.Title,
		Content:    c.Content,
		OwnerID:    c.OwnerID,
		SharedWith: c.SharedWith,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}
