// Package repository holds the errors shared by every storage adapter.
package repository

import "errors"

var (
	// ErrNotFound is returned when no document matches, including documents
	// owned by another company.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate")
)
