package storage

import "context"

// Reader is the read-only view handed to components that only need a fallback
// lookup, such as the request header builder.
type Reader interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

type Storage interface {
	Reader
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	// Replace writes set and removes del in one transaction.
	Replace(ctx context.Context, set map[string][]byte, del ...string) error
	// Delete removes the given keys atomically. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
