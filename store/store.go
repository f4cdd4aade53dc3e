// Package store is the record store adapter. Every entity lives in a named
// collection of flat records keyed by an integer "id" field; the store does
// not enforce references between collections.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a collection is empty or a record is absent.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert collides with an existing id.
	ErrConflict = errors.New("record id already in use")
	// ErrDeleteNotApplied is returned when a record is still present after delete.
	ErrDeleteNotApplied = errors.New("record still present after delete")
)

// Collection is a named set of records of one entity type.
type Collection[T any] interface {
	Name() string
	// All returns every record ordered by id, or ErrNotFound when empty.
	All(ctx context.Context) ([]T, error)
	// FindBy returns the first record whose field equals value.
	FindBy(ctx context.Context, field string, value any) (T, error)
	// IDs returns the ids currently in use. An empty collection yields an
	// empty slice, not an error.
	IDs(ctx context.Context) ([]int, error)
	Insert(ctx context.Context, record T) error
	// Update sets the given fields on the record with the given id.
	Update(ctx context.Context, id int, fields map[string]any) error
	Delete(ctx context.Context, id int) error
}

// Get is shorthand for FindBy(ctx, "id", id).
func Get[T any](ctx context.Context, c Collection[T], id int) (T, error) {
	return c.FindBy(ctx, "id", id)
}

// Remove deletes the record and then checks that it is really gone.
func Remove[T any](ctx context.Context, c Collection[T], id int) error {
	if err := c.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", c.Name(), id, err)
	}

	_, err := Get(ctx, c, id)
	switch {
	case err == nil:
		return fmt.Errorf("delete %s %d: %w", c.Name(), id, ErrDeleteNotApplied)
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return fmt.Errorf("verify delete %s %d: %w", c.Name(), id, err)
	}
}
