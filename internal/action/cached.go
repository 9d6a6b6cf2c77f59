package action

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"casebook/internal/action/metrics"
	"casebook/internal/action/store"
	domain "casebook/internal/jurisdiction/models"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/sentinel"
	"casebook/pkg/requestcontext"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultFetchTimeout = 10 * time.Second
)

// CachedResolver wraps an ActionResolver with a TTL store and coalesces
// concurrent lookups so a missing key triggers exactly one upstream fetch.
// Not-found results are not cached. Store failures fall through to upstream.
type CachedResolver struct {
	next         ActionResolver
	store        store.Store
	group        singleflight.Group
	fetchTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

type CacheOption func(*CachedResolver)

// WithStore replaces the default in-memory store.
func WithStore(s store.Store) CacheOption {
	return func(c *CachedResolver) {
		if s != nil {
			c.store = s
		}
	}
}

// WithFetchTimeout bounds a shared upstream fetch. The fetch outlives the
// caller that started it so other waiters are not cancelled with it.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *CachedResolver) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *CachedResolver) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedResolver) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCachedResolver(next ActionResolver, opts ...CacheOption) *CachedResolver {
	c := &CachedResolver{
		next:         next,
		store:        store.NewInMemoryStore(defaultCacheTTL),
		fetchTimeout: defaultFetchTimeout,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedResolver) Resolve(ctx context.Context, guid string) (domain.Action, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return domain.Action{}, dErrors.New(dErrors.CodeValidation, "action guid is required")
	}

	cached, err := c.store.Find(ctx, guid)
	if err == nil {
		c.metrics.IncrementHit()
		return cached, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		c.logger.WarnContext(ctx, "action cache lookup failed",
			"guid", guid,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	c.metrics.IncrementMiss()

	ch := c.group.DoChan(guid, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		// A flight for guid may have saved and left the group after our miss.
		if cached, err := c.store.Find(fetchCtx, guid); err == nil {
			c.metrics.IncrementHit()
			return cached, nil
		}
		return c.fetch(fetchCtx, guid)
	})

	select {
	case <-ctx.Done():
		return domain.Action{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.metrics.IncrementShared()
		}
		if res.Err != nil {
			return domain.Action{}, res.Err
		}
		return res.Val.(domain.Action), nil
	}
}

func (c *CachedResolver) fetch(ctx context.Context, guid string) (domain.Action, error) {
	start := time.Now()
	action, err := c.next.Resolve(ctx, guid)
	c.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return domain.Action{}, err
	}
	if err := c.store.Save(ctx, action); err != nil {
		c.logger.WarnContext(ctx, "action cache save failed",
			"guid", guid,
			"error", err,
		)
	}
	return action, nil
}
