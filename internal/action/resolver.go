// Package action resolves action descriptors by GUID.
//
// Resolver is a thin, uncached adapter over the record source. CachedResolver
// layers a TTL store and per-key request coalescing on top of any
// ActionResolver.
package action

import (
	"context"
	"errors"
	"strings"

	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/records"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/sentinel"
)

// ActionResolver resolves a single action.
//
//go:generate mockgen -source=resolver.go -destination=mocks/resolver_mock.go -package=mocks ActionResolver
type ActionResolver interface {
	Resolve(ctx context.Context, guid string) (domain.Action, error)
}

// Resolver fetches actions from the record source without caching.
type Resolver struct {
	source records.Source
}

func NewResolver(source records.Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the action for guid. An empty guid is a validation error; an
// absent action is CodeNotFound; transport failures keep their upstream code.
func (r *Resolver) Resolve(ctx context.Context, guid string) (domain.Action, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return domain.Action{}, dErrors.New(dErrors.CodeValidation, "action guid is required")
	}
	rec, err := r.source.FindAction(ctx, guid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Action{}, dErrors.Wrap(err, dErrors.CodeNotFound, "action not found")
		}
		return domain.Action{}, err
	}
	if rec == nil {
		return domain.Action{}, dErrors.Newf(dErrors.CodeNotFound, "action %s not found", guid)
	}
	action, err := records.ToAction(*rec)
	if err != nil {
		return domain.Action{}, err
	}
	return action, nil
}
