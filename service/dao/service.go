package dao

import (
	"context"
)

// Service is a generic keyed store. The engine only holds a reference to a
// Service implementation; ownership of the backing state (and its eviction
// schedule) stays with the embedding application.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
