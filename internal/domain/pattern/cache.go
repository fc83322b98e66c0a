package pattern

import (
	"context"
	"time"
)

// ResultCache memoizes full views keyed by dataset fingerprint and selector.
type ResultCache interface {
	Get(ctx context.Context, key string) (View, bool, error)
	Put(ctx context.Context, key string, view View, ttl time.Duration) error
}
