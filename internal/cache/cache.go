package cache

import "context"

// Cache stores per-text NLP results keyed by content hash. Implementations
// must tolerate concurrent writers racing on the same key: both writes carry
// the same value, so last-write-wins is fine.
type Cache interface {
	Get(ctx context.Context, key string, value interface{}) (bool, error)
	Put(ctx context.Context, key string, value interface{}) error
	Clear(ctx context.Context) error
}
