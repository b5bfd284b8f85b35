// Package repository provides the persistence layer behind the auth and book
// services. Email uniqueness and atomicity of writes are delegated to the
// database; no locking happens here.
package repository

import "errors"

// ErrNotFound is returned when no record matches the given key.
var ErrNotFound = errors.New("record not found")
