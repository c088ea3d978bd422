package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Sequence issues strictly increasing codes.
// Next returns a value greater than floor and than any value issued before.
type Sequence interface {
	Next(floor int) (int, error)
}

// MemorySequence is a process-local counter
type MemorySequence struct {
	mu   sync.Mutex
	last int
}

func (s *MemorySequence) Next(floor int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = max(s.last, floor) + 1
	return s.last, nil
}

// FileSequence keeps the last issued value in a small text file
type FileSequence struct {
	mu   sync.Mutex
	path string
}

// NewFileSequence creates a sequence persisted at path
func NewFileSequence(path string) *FileSequence {
	return &FileSequence{path: path}
}

func (s *FileSequence) Next(floor int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if v := strings.TrimSpace(string(data)); v != "" {
			last, err = strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("failed to parse sequence %s: %w", s.path, err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return 0, fmt.Errorf("failed to read sequence %s: %w", s.path, err)
	}

	next := max(last, floor) + 1
	if err := WriteFileAtomic(s.path, []byte(strconv.Itoa(next)+"\n")); err != nil {
		return 0, err
	}
	return next, nil
}
