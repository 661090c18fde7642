// Package migrations содержит SQL-миграции схемы, встроенные в бинарник.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SourceName - имя источника для migrate.NewWithSourceInstance.
const SourceName = "iofs"

//go:embed *.sql
var files embed.FS

// Source возвращает source.Driver поверх встроенных файлов.
func Source() (source.Driver, error) {
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	return src, nil
}

// LatestVersion возвращает номер последней миграции в источнике.
func LatestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("failed to read first migration: %w", err)
	}

	for {
		next, err := src.Next(version)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return version, nil
			}
			return 0, fmt.Errorf("failed to read next migration: %w", err)
		}
		version = next
	}
}
