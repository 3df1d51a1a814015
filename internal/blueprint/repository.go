package blueprint

import (
	"cmp"
	"context"
	"errors"
	"slices"
)

// ErrInvalidInput is returned when a blueprint or identity fails validation.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when no blueprint matches the requested identity or author.
var ErrNotFound = errors.New("blueprint not found")

// ErrAlreadyExists is returned when saving a blueprint whose identity is taken.
var ErrAlreadyExists = errors.New("blueprint already exists")

// ErrStorageFailure wraps I/O, connectivity and encoding errors from a backend.
var ErrStorageFailure = errors.New("storage failure")

// ErrDataCorruption is returned when stored points cannot be decoded.
var ErrDataCorruption = errors.New("stored blueprint data is corrupt")

// Repository is the storage contract for blueprints. Save and AppendPoint
// are atomic with respect to every other operation.
type Repository interface {
	Save(ctx context.Context, bp *Blueprint) error
	Get(ctx context.Context, author, name string) (*Blueprint, error)
	// GetByAuthor returns ErrNotFound when the author has no blueprints.
	GetByAuthor(ctx context.Context, author string) ([]Blueprint, error)
	GetAll(ctx context.Context) ([]Blueprint, error)
	// AppendPoint places p after the last stored point.
	AppendPoint(ctx context.Context, author, name string, p Point) error
}

// Pinger is implemented by repositories that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SortByKey orders blueprints by author, then name.
func SortByKey(bps []Blueprint) {
	slices.SortFunc(bps, func(a, b Blueprint) int {
		if c := cmp.Compare(a.Author, b.Author); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
