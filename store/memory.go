package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

var _ Collection[struct{}] = (*Memory[struct{}])(nil)

// Memory is an in-memory Collection. Records are kept in their BSON form so
// field lookups and decoding behave like the Mongo collection. Safe for
// concurrent use.
type Memory[T any] struct {
	name string

	mu   sync.RWMutex
	docs []bson.Raw
}

func NewMemory[T any](name string) *Memory[T] {
	return &Memory[T]{name: name}
}

func (m *Memory[T]) Name() string {
	return m.name
}

func (m *Memory[T]) All(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	docs := make([]bson.Raw, len(m.docs))
	copy(docs, m.docs)
	m.mu.RUnlock()

	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := idOf(docs[i])
		b, _ := idOf(docs[j])
		return a < b
	})

	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		var record T
		if err := bson.Unmarshal(doc, &record); err != nil {
			return nil, fmt.Errorf("decode %s: %w", m.name, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *Memory[T]) FindBy(ctx context.Context, field string, value any) (T, error) {
	var record T

	t, data, err := bson.MarshalValue(value)
	if err != nil {
		return record, fmt.Errorf("find %s by %s: %w", m.name, field, err)
	}
	want := bson.RawValue{Type: t, Value: data}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs {
		got, err := doc.LookupErr(field)
		if err != nil || !equalValues(got, want) {
			continue
		}
		if err := bson.Unmarshal(doc, &record); err != nil {
			return record, fmt.Errorf("decode %s: %w", m.name, err)
		}
		return record, nil
	}
	return record, ErrNotFound
}

func (m *Memory[T]) IDs(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.docs))
	for _, doc := range m.docs {
		if id, ok := idOf(doc); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Memory[T]) Insert(ctx context.Context, record T) error {
	doc, err := bson.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := idOf(doc); ok && m.indexOf(id) >= 0 {
		return ErrConflict
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *Memory[T]) Update(ctx context.Context, id int, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	var current bson.M
	if err := bson.Unmarshal(m.docs[i], &current); err != nil {
		return fmt.Errorf("decode %s: %w", m.name, err)
	}
	for k, v := range fields {
		current[k] = v
	}

	doc, err := bson.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.name, err)
	}
	m.docs[i] = doc
	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (m *Memory[T]) indexOf(id int) int {
	for i, doc := range m.docs {
		if got, ok := idOf(doc); ok && got == id {
			return i
		}
	}
	return -1
}

func idOf(doc bson.Raw) (int, bool) {
	v, err := doc.LookupErr("id")
	if err != nil {
		return 0, false
	}
	n, ok := intValue(v)
	return int(n), ok
}

func intValue(v bson.RawValue) (int64, bool) {
	if n, ok := v.Int32OK(); ok {
		return int64(n), true
	}
	if n, ok := v.Int64OK(); ok {
		return n, true
	}
	return 0, false
}

// equalValues treats int32 and int64 as the same type, as Mongo queries do.
func equalValues(a, b bson.RawValue) bool {
	x, okA := intValue(a)
	y, okB := intValue(b)
	if okA && okB {
		return x == y
	}
	return a.Equal(b)
}
