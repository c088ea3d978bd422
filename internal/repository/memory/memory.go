// Package memory keeps every collection in process memory; contents are lost on exit.
package memory

import (
	"slices"
	"sync"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

// Backend is a store.Backend holding rows in a slice
type Backend[T any] struct {
	mu   sync.RWMutex
	rows []T
}

// Load returns a copy of the slice
func (b *Backend[T]) Load() ([]T, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.rows), nil
}

// Save replaces the stored rows
func (b *Backend[T]) Save(rows []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = slices.Clone(rows)
	return nil
}

// Open returns an empty in-memory repository set
func Open() *store.Repositories {
	return store.New(store.Backends{
		Products:       &Backend[domain.Product]{},
		Users:          &Backend[domain.User]{},
		Carts:          &Backend[domain.Cart]{},
		CartSequence:   &store.MemorySequence{},
		Questionnaires: &Backend[domain.Questionnaire]{},
	})
}
