// Package ids assigns integer record ids. The store has no auto-increment, so
// a new record gets the lowest non-negative id not currently in use, which
// reuses ids vacated by deletions.
package ids

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"recipesplusplus/store"
)

// NextID returns the smallest integer in [0, max(existing)+1] that is not in
// existing. The range holds one more value than existing, so one is free.
func NextID(existing []int) int {
	used := make(map[int]struct{}, len(existing))
	maxID := -1
	for _, id := range existing {
		used[id] = struct{}{}
		if id > maxID {
			maxID = id
		}
	}

	for id := 0; id <= maxID+1; id++ {
		if _, ok := used[id]; !ok {
			return id
		}
	}
	return maxID + 1
}

// Lister lists the ids in use in one collection.
type Lister interface {
	Name() string
	IDs(ctx context.Context) ([]int, error)
}

// DefaultAttempts bounds retries when a concurrent writer took the same id.
const DefaultAttempts = 3

// Allocator serializes the read-decide-write sequence per collection. Readers
// of other collections, and plain reads, are never blocked by it.
type Allocator struct {
	Attempts int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAllocator() *Allocator {
	return &Allocator{
		Attempts: DefaultAttempts,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (a *Allocator) lockFor(name string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.locks[name]
	if !ok {
		l = &sync.Mutex{}
		a.locks[name] = l
	}
	return l
}

// Insert picks the next free id in c and calls insert with it while holding
// the collection lock. If insert reports store.ErrConflict (another process
// wrote the same id) the ids are re-read and the insert retried.
func (a *Allocator) Insert(ctx context.Context, c Lister, insert func(ctx context.Context, id int) error) (int, error) {
	l := a.lockFor(c.Name())
	l.Lock()
	defer l.Unlock()

	attempts := a.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		var existing []int
		existing, err = c.IDs(ctx)
		if err != nil {
			return 0, fmt.Errorf("list %s ids: %w", c.Name(), err)
		}

		id := NextID(existing)
		err = insert(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return 0, err
		}
		slog.Warn("id conflict, retrying", "collection", c.Name(), "id", id, "attempt", i+1)
	}
	return 0, err
}
