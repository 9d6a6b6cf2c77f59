// Package subgraph reads indexed records from the GraphQL indexing service.
//
// Query syntax stays inside this package; callers only see records.Source.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"casebook/internal/records"
	"casebook/internal/records/metrics"
	"casebook/internal/records/models"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/circuit"
	"casebook/pkg/platform/sentinel"
	"casebook/pkg/requestcontext"
)

const sourceName = "subgraph"

// Client implements records.Source over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *circuit.Breaker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the GraphQL endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		breaker:  circuit.New(sourceName),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (c *Client) FindRules(ctx context.Context, q records.RuleQuery) ([]models.RuleRecord, error) {
	page := q.Page.Normalize()
	where := map[string]any{}
	if q.ID != nil {
		where["id"] = *q.ID
	}
	if q.Jurisdiction != nil {
		where["jurisdiction"] = strings.ToLower(*q.Jurisdiction)
	}
	if q.ActionGUID != nil {
		where["rule_"] = map[string]any{"about": *q.ActionGUID}
	}
	var out struct {
		JurisdictionRules []models.RuleRecord `json:"jurisdictionRules"`
	}
	err := c.do(ctx, "rules", findRulesQuery, map[string]any{
		"first": page.First,
		"skip":  page.Skip,
		"where": where,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.JurisdictionRules, nil
}

func (c *Client) FindCases(ctx context.Context, q records.CaseQuery) ([]models.CaseRecord, error) {
	page := q.Page.Normalize()
	where := map[string]any{}
	if q.Jurisdiction != nil {
		where["jurisdiction"] = strings.ToLower(*q.Jurisdiction)
	}
	var out struct {
		CaseEntities []models.CaseRecord `json:"caseEntities"`
	}
	err := c.do(ctx, "cases", findCasesQuery, map[string]any{
		"first": page.First,
		"skip":  page.Skip,
		"where": where,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.CaseEntities, nil
}

func (c *Client) FindAction(ctx context.Context, guid string) (*models.ActionRecord, error) {
	var out struct {
		Action *models.ActionRecord `json:"action"`
	}
	if err := c.do(ctx, "action", findActionQuery, map[string]any{"guid": guid}, &out); err != nil {
		return nil, err
	}
	if out.Action == nil {
		return nil, fmt.Errorf("action %s: %w", guid, sentinel.ErrNotFound)
	}
	return out.Action, nil
}

func (c *Client) do(ctx context.Context, entity, query string, vars map[string]any, out any) error {
	if c.breaker != nil && !c.breaker.Allow() {
		c.metrics.IncrementFetchError(sourceName, entity, string(dErrors.CodeUnavailable))
		return dErrors.Wrap(sentinel.ErrCircuitOpen, dErrors.CodeUnavailable, "record source unavailable")
	}

	start := time.Now()
	err := c.roundTrip(ctx, query, vars, out)
	c.metrics.ObserveFetch(sourceName, entity, time.Since(start))

	if err != nil {
		code := dErrors.CodeOf(err)
		c.metrics.IncrementFetchError(sourceName, entity, string(code))
		if code == dErrors.CodeUnavailable {
			c.recordFailure(ctx)
		}
		c.logger.WarnContext(ctx, "subgraph fetch failed",
			"entity", entity,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return err
	}
	c.recordSuccess()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode query")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "record source unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			fmt.Sprintf("record source returned %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return dErrors.Newf(dErrors.CodeInternal, "record source rejected query with status %d", resp.StatusCode)
	}

	var envelope gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "decode record source response")
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return dErrors.Newf(dErrors.CodeInternal, "record source query failed: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decode record source data")
	}
	return nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.metrics.SetBreakerOpen(sourceName, true)
		c.logger.ErrorContext(ctx, "subgraph circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess() {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.metrics.SetBreakerOpen(sourceName, false)
		c.logger.Info("subgraph circuit closed", "breaker", c.breaker.Name())
	}
}
