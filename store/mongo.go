package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Collection[struct{}] = (*Mongo[struct{}])(nil)

// Mongo is a Collection backed by a MongoDB collection.
type Mongo[T any] struct {
	coll *mongo.Collection
}

func NewMongo[T any](coll *mongo.Collection) *Mongo[T] {
	return &Mongo[T]{coll: coll}
}

func (m *Mongo[T]) Name() string {
	return m.coll.Name()
}

func (m *Mongo[T]) All(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.Name(), err)
	}
	defer cursor.Close(ctx)

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Name(), err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

func (m *Mongo[T]) FindBy(ctx context.Context, field string, value any) (T, error) {
	var record T
	err := m.coll.FindOne(ctx, bson.M{field: value}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return record, ErrNotFound
	}
	if err != nil {
		return record, fmt.Errorf("find %s by %s: %w", m.Name(), field, err)
	}
	return record, nil
}

func (m *Mongo[T]) IDs(ctx context.Context) ([]int, error) {
	values, err := m.coll.Distinct(ctx, "id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s ids: %w", m.Name(), err)
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int32:
			ids = append(ids, int(n))
		case int64:
			ids = append(ids, int(n))
		case float64:
			ids = append(ids, int(n))
		}
	}
	return ids, nil
}

func (m *Mongo[T]) Insert(ctx context.Context, record T) error {
	if _, err := m.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert %s: %w", m.Name(), err)
	}
	return nil
}

func (m *Mongo[T]) Update(ctx context.Context, id int, fields map[string]any) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s: %w", m.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id int) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
