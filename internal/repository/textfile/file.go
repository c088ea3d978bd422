// Package textfile stores each collection as a delimited text file, one record per line.
package textfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

const maxLineBytes = 1 << 20

// Codec maps a row to the fields of one line and back
type Codec[T any] struct {
	Comma  rune
	Encode func(T) []string
	Decode func(fields []string) (T, error)
}

// File is a store.Backend over a single text file.
// A missing file is an empty collection; malformed lines are logged and skipped.
type File[T any] struct {
	path   string
	codec  Codec[T]
	logger *slog.Logger
}

// NewFile creates a text backend at path
func NewFile[T any](path string, codec Codec[T], logger *slog.Logger) *File[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &File[T]{path: path, codec: codec, logger: logger}
}

// Load parses every line of the file
func (f *File[T]) Load() ([]T, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	defer fh.Close()

	var rows []T
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := f.decodeLine(line)
		if err != nil {
			f.logger.Warn("skipping malformed record",
				slog.String("file", f.path),
				slog.Int("line", lineNo),
				slog.String("error", err.Error()),
			)
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return rows, nil
}

func (f *File[T]) decodeLine(line string) (T, error) {
	var zero T
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = f.codec.Comma
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return zero, err
	}
	return f.codec.Decode(fields)
}

// Save rewrites the whole file
func (f *File[T]) Save(rows []T) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = f.codec.Comma
	for _, row := range rows {
		fields := f.codec.Encode(row)
		for i := range fields {
			fields[i] = singleLine(fields[i])
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return store.WriteFileAtomic(f.path, buf.Bytes())
}

// singleLine keeps one record per line
func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
