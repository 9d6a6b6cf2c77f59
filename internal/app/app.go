// Package app assembles the object graph from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"casebook/internal/action"
	actionmetrics "casebook/internal/action/metrics"
	"casebook/internal/action/store"
	"casebook/internal/cases"
	casesmetrics "casebook/internal/cases/metrics"
	"casebook/internal/jurisdiction/service"
	"casebook/internal/law"
	lawmetrics "casebook/internal/law/metrics"
	"casebook/internal/platform/config"
	"casebook/internal/platform/postgres"
	"casebook/internal/platform/redis"
	"casebook/internal/records"
	"casebook/internal/records/memory"
	recordmetrics "casebook/internal/records/metrics"
	pgsource "casebook/internal/records/postgres"
	"casebook/internal/records/subgraph"
	"casebook/internal/submission"
	"casebook/pkg/platform/circuit"
)

// Metrics groups the per-module Prometheus collectors. They register on the
// default registry, so build one per process.
type Metrics struct {
	Records *recordmetrics.Metrics
	Action  *actionmetrics.Metrics
	Law     *lawmetrics.Metrics
	Cases   *casesmetrics.Metrics
}

func NewMetrics() *Metrics {
	return &Metrics{
		Records: recordmetrics.New(),
		Action:  actionmetrics.New(),
		Law:     lawmetrics.New(),
		Cases:   casesmetrics.New(),
	}
}

// App is the wired facade plus the resources it holds open.
type App struct {
	Service *service.Service

	closers []func() error
}

// Build wires the record source, action cache, aggregator, assembler and
// submission publisher selected by cfg. m may be nil.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, m *Metrics) (*App, error) {
	if m == nil {
		m = &Metrics{}
	}
	a := &App{}

	source, err := a.openSource(ctx, cfg, logger, m)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	actionStore, err := a.openActionStore(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	resolver := action.NewCachedResolver(action.NewResolver(source),
		action.WithStore(actionStore),
		action.WithFetchTimeout(cfg.Action.FetchTimeout),
		action.WithMetrics(m.Action),
		action.WithLogger(logger),
	)
	aggregator := law.New(resolver,
		law.WithConcurrency(cfg.Law.ResolveConcurrency),
		law.WithMetrics(m.Law),
		law.WithLogger(logger),
	)
	assembler, err := cases.New(cases.WithMetrics(m.Cases), cases.WithLogger(logger))
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Service = service.New(source, aggregator, assembler,
		service.WithPublisher(publisher),
		service.WithDefaultJurisdiction(cfg.Jurisdiction),
		service.WithLogger(logger),
	)
	return a, nil
}

// MigrateMirror creates the Postgres mirror tables when missing. Build never
// runs DDL; the sync job that fills the mirror or an operator calls this once.
func MigrateMirror(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.Source.DatabaseURL == "" {
		return fmt.Errorf("migrate: %s_DATABASE_URL is not set", config.EnvPrefix)
	}
	db, err := postgres.Open(ctx, cfg.Source.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := pgsource.Migrate(ctx, db); err != nil {
		return err
	}
	logger.InfoContext(ctx, "record mirror schema applied")
	return nil
}

func (a *App) openSource(ctx context.Context, cfg config.Config, logger *slog.Logger, m *Metrics) (records.Source, error) {
	kind, err := cfg.Source.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case config.SourcePostgres:
		db, err := postgres.Open(ctx, cfg.Source.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		logger.InfoContext(ctx, "record source selected", "source", kind)
		return pgsource.New(db, m.Records), nil
	case config.SourceSubgraph:
		logger.InfoContext(ctx, "record source selected", "source", kind, "endpoint", cfg.Source.SubgraphURL)
		return subgraph.New(cfg.Source.SubgraphURL,
			subgraph.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
			subgraph.WithBreaker(circuit.New("subgraph")),
			subgraph.WithMetrics(m.Records),
			subgraph.WithLogger(logger),
		), nil
	default:
		src, err := memory.LoadFile(cfg.Source.SeedFile)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "record source selected", "source", kind, "seed", cfg.Source.SeedFile)
		return src, nil
	}
}

func (a *App) openActionStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return store.NewInMemoryStore(cfg.Action.CacheTTL), nil
	}
	a.closers = append(a.closers, client.Close)
	return store.NewRedisStore(client, cfg.Action.CacheTTL), nil
}

func (a *App) openPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) (submission.SubmissionPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return submission.NopPublisher{Logger: logger}, nil
	}
	pub, err := submission.NewPublisher(cfg.Kafka.Brokers,
		submission.WithTopic(cfg.Kafka.Topic),
		submission.WithPublisherLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { pub.Close(); return nil })
	if err := pub.EnsureTopic(ctx, 3, 1); err != nil {
		return nil, fmt.Errorf("ensure submission topic: %w", err)
	}
	return pub, nil
}

// Close releases every resource Build opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

var (
	_ records.Source = (*memory.Source)(nil)
	_ records.Source = (*pgsource.Source)(nil)
	_ records.Source = (*subgraph.Client)(nil)
)
