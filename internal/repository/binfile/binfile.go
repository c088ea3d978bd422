// Package binfile stores each collection as one gob encoded blob.
// Records are converted to versioned DTOs before encoding so that zero values
// such as an explicit stock of 0 survive the round trip.
package binfile

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

// File names inside the data directory
const (
	ProductsFile       = "products.bin"
	UsersFile          = "users.bin"
	CartsFile          = "carts.bin"
	QuestionnairesFile = "questionnaires.bin"
)

const formatVersion = 1

type envelope[R any] struct {
	Version int
	Records []R
}

// File is a store.Backend over a single gob blob.
// A missing or empty file is an empty collection; a blob that fails to decode
// or holds an invalid record returns domain.ErrCorrupt.
type File[T, R any] struct {
	path   string
	to     func(T) R
	from   func(R) (T, error)
	logger *slog.Logger
}

// NewFile creates a binary backend at path converting rows through R
func NewFile[T, R any](path string, to func(T) R, from func(R) (T, error), logger *slog.Logger) *File[T, R] {
	if logger == nil {
		logger = slog.Default()
	}
	return &File[T, R]{path: path, to: to, from: from, logger: logger}
}

// Load decodes the whole blob
func (f *File[T, R]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var env envelope[R]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		f.logger.Error("failed to decode data file",
			slog.String("file", f.path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to decode %s: %w: %v", f.path, domain.ErrCorrupt, err)
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("%s has format version %d, want %d: %w", f.path, env.Version, formatVersion, domain.ErrCorrupt)
	}

	rows := make([]T, 0, len(env.Records))
	for _, r := range env.Records {
		row, err := f.from(r)
		if err != nil {
			f.logger.Error("invalid record in data file",
				slog.String("file", f.path),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save encodes and rewrites the whole blob
func (f *File[T, R]) Save(rows []T) error {
	env := envelope[R]{Version: formatVersion, Records: make([]R, 0, len(rows))}
	for _, row := range rows {
		env.Records = append(env.Records, f.to(row))
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}
	return store.WriteFileAtomic(f.path, buf.Bytes())
}

// Open returns a repository set backed by gob files in dir
func Open(dir string, logger *slog.Logger) *store.Repositories {
	return store.New(store.Backends{
		Products:       NewFile(filepath.Join(dir, ProductsFile), toProductRecord, fromProductRecord, logger),
		Users:          NewFile(filepath.Join(dir, UsersFile), toUserRecord, fromUserRecord, logger),
		Carts:          NewFile(filepath.Join(dir, CartsFile), toCartRecord, fromCartRecord, logger),
		CartSequence:   store.NewFileSequence(filepath.Join(dir, CartsFile+".seq")),
		Questionnaires: NewFile(filepath.Join(dir, QuestionnairesFile), toQuestionnaireRecord, fromQuestionnaireRecord, logger),
	})
}
