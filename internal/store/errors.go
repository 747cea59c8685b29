package store

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert or update violates a uniqueness
	// constraint (duplicate admin email or post slug).
	ErrConflict = errors.New("already exists")
)
