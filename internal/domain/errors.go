package domain

import "errors"

var (
	// ErrNotFound is returned when a key is absent from a store
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a record whose key is taken
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuantity is returned for non-positive cart quantities
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrCorrupt is returned when a persisted collection cannot be decoded
	ErrCorrupt = errors.New("corrupt data file")
)
