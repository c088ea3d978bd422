// Package store implements the gateway contracts once, on top of a pluggable
// Backend that loads and saves a whole collection. The memory, textfile and
// binfile packages provide the backends.
//
// Every mutation is load, change, save. A Table serializes its own callers
// with a mutex; it does not guard against other processes sharing a file.
package store

import (
	"fmt"
	"sync"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// Backend persists a full collection of rows
type Backend[T any] interface {
	Load() ([]T, error)
	Save(rows []T) error
}

// Table is a keyed collection of rows over a Backend
type Table[K comparable, T any] struct {
	mu      sync.Mutex
	backend Backend[T]
	key     func(T) K
	clone   func(T) T
}

// NewTable creates a table. clone must return a copy sharing no mutable state.
func NewTable[K comparable, T any](backend Backend[T], key func(T) K, clone func(T) T) *Table[K, T] {
	return &Table[K, T]{backend: backend, key: key, clone: clone}
}

func (t *Table[K, T]) load() ([]T, error) {
	rows, err := t.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return rows, nil
}

func (t *Table[K, T]) save(rows []T) error {
	if err := t.backend.Save(rows); err != nil {
		return fmt.Errorf("failed to save rows: %w", err)
	}
	return nil
}

func (t *Table[K, T]) index(rows []T, k K) int {
	for i := range rows {
		if t.key(rows[i]) == k {
			return i
		}
	}
	return -1
}

// Insert appends v; a taken key returns domain.ErrAlreadyExists
func (t *Table[K, T]) Insert(v T) error {
	return t.InsertWith(func([]T) (T, error) { return v, nil })
}

// InsertWith builds the new row from the current rows while holding the lock
func (t *Table[K, T]) InsertWith(build func(rows []T) (T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	v, err := build(rows)
	if err != nil {
		return err
	}
	if t.index(rows, t.key(v)) >= 0 {
		return domain.ErrAlreadyExists
	}
	return t.save(append(rows, t.clone(v)))
}

// Get returns a copy of the row stored under k
func (t *Table[K, T]) Get(k K) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	rows, err := t.load()
	if err != nil {
		return zero, err
	}
	i := t.index(rows, k)
	if i < 0 {
		return zero, domain.ErrNotFound
	}
	return t.clone(rows[i]), nil
}

// Replace overwrites the row with v's key; an absent key returns domain.ErrNotFound
// and leaves the collection untouched.
func (t *Table[K, T]) Replace(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	i := t.index(rows, t.key(v))
	if i < 0 {
		return domain.ErrNotFound
	}
	rows[i] = t.clone(v)
	return t.save(rows)
}

// Remove deletes the row under k; an absent key returns domain.ErrNotFound
func (t *Table[K, T]) Remove(k K) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	i := t.index(rows, k)
	if i < 0 {
		return domain.ErrNotFound
	}
	rows = append(rows[:i], rows[i+1:]...)
	return t.save(rows)
}

// Select returns copies of the rows accepted by match, in storage order.
// A nil match selects everything.
func (t *Table[K, T]) Select(match func(T) bool) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if match == nil || match(r) {
			out = append(out, t.clone(r))
		}
	}
	return out, nil
}
