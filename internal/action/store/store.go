// Package store holds TTL stores for resolved actions.
package store

import (
	"context"

	domain "casebook/internal/jurisdiction/models"
)

// Store caches resolved actions. Find returns sentinel.ErrNotFound on a miss
// or an expired entry.
type Store interface {
	Find(ctx context.Context, guid string) (domain.Action, error)
	Save(ctx context.Context, action domain.Action) error
}
