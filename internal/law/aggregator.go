// Package law groups jurisdiction rules into laws keyed by the action they
// regulate.
package law

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"casebook/internal/action"
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law/metrics"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/requestcontext"
)

const defaultConcurrency = 8

var tracer = otel.Tracer("casebook/law")

// Aggregator builds laws from rules. It holds no per-call state, so one
// instance can serve concurrent passes.
type Aggregator struct {
	resolver    action.ActionResolver
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

type Option func(*Aggregator)

// WithConcurrency bounds concurrent action lookups within a pass.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func New(resolver action.ActionResolver, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver:    resolver,
		concurrency: defaultConcurrency,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type resolution struct {
	action domain.Action
	err    error
	done   bool
}

// Aggregate groups rules by action GUID. Each distinct GUID is resolved at
// most once; laws and their rules keep first-seen input order. Rules whose
// action cannot be resolved are reported as skipped, never as a failure of
// the whole pass. If ctx is cancelled no further lookups start and the
// partial result is returned.
func (a *Aggregator) Aggregate(ctx context.Context, rules []domain.Rule) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "law.Aggregate",
		trace.WithAttributes(attribute.Int("casebook.rules", len(rules))))
	defer span.End()

	guids, index := distinctActions(rules)
	resolved := a.resolveAll(ctx, guids)

	result := &Result{Laws: domain.NewLaws(), Outcomes: make([]Outcome, 0, len(rules))}
	for _, rule := range rules {
		outcome := Outcome{RuleID: rule.ID, ActionGUID: rule.ActionGUID}
		if rule.ActionGUID == "" {
			outcome.Status, outcome.Reason = StatusSkipped, SkipReasonMissingAction
			a.record(ctx, &outcome, result)
			continue
		}

		res := resolved[index[rule.ActionGUID]]
		if !res.done || res.err != nil {
			outcome.Status, outcome.Reason, outcome.Err = StatusSkipped, skipReason(res), res.err
			if !res.done {
				outcome.Err = ctx.Err()
			}
			a.record(ctx, &outcome, result)
			continue
		}

		law, ok := result.Laws.Get(rule.ActionGUID)
		if !ok {
			law = domain.NewLaw(res.action)
			result.Laws.Set(law)
		}
		added, err := law.AddRule(rule)
		if err != nil {
			span.SetStatus(codes.Error, "law invariant violated")
			span.RecordError(err)
			return nil, err
		}
		outcome.Status = StatusIncluded
		if !added {
			outcome.Status = StatusDuplicate
		}
		a.record(ctx, &outcome, result)
	}

	span.SetAttributes(
		attribute.Int("casebook.laws", result.Laws.Len()),
		attribute.Int("casebook.skipped", len(result.Skipped())),
	)
	a.metrics.ObserveActions(len(guids))
	a.metrics.ObserveAggregate(time.Since(start))
	return result, nil
}

// resolveAll looks up every guid with bounded concurrency. Results are
// stored by position so the caller can rebuild input order.
func (a *Aggregator) resolveAll(ctx context.Context, guids []string) []resolution {
	out := make([]resolution, len(guids))
	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, guid := range guids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			act, err := a.resolver.Resolve(ctx, guid)
			if err == nil && act.GUID != guid {
				err = dErrors.Newf(dErrors.CodeInvariantViolation,
					"resolver returned action %q for %q", act.GUID, guid)
			}
			out[i] = resolution{action: act, err: err, done: true}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (a *Aggregator) record(ctx context.Context, o *Outcome, result *Result) {
	result.Outcomes = append(result.Outcomes, *o)
	a.metrics.IncrementRule(string(o.Status))
	if o.Status == StatusSkipped {
		a.logger.DebugContext(ctx, "rule skipped",
			"rule_id", o.RuleID,
			"action_guid", o.ActionGUID,
			"reason", o.Reason,
			"request_id", requestcontext.RequestID(ctx),
			"error", o.Err,
		)
	}
}

func distinctActions(rules []domain.Rule) ([]string, map[string]int) {
	index := make(map[string]int)
	var guids []string
	for _, r := range rules {
		if r.ActionGUID == "" {
			continue
		}
		if _, ok := index[r.ActionGUID]; ok {
			continue
		}
		index[r.ActionGUID] = len(guids)
		guids = append(guids, r.ActionGUID)
	}
	return guids, index
}

func skipReason(res resolution) SkipReason {
	switch {
	case !res.done, errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
		return SkipReasonCancelled
	case dErrors.HasCode(res.err, dErrors.CodeNotFound):
		return SkipReasonActionNotFound
	default:
		return SkipReasonActionUnresolvable
	}
}
