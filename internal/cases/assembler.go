// Package cases turns raw indexed case records into validated domain cases.
package cases

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"casebook/internal/cases/metrics"
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/records"
	"casebook/internal/records/models"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/requestcontext"
)

//go:embed schema.json
var caseRecordSchema string

const schemaURL = "https://casebook.local/schemas/case-record.schema.json"

var tracer = otel.Tracer("casebook/cases")

// Status is what happened to one input record.
type Status string

const (
	StatusIncluded Status = "included"
	StatusSkipped  Status = "skipped"
)

// SkipReason explains a StatusSkipped outcome.
type SkipReason string

const (
	SkipReasonInvalidShape  SkipReason = "invalid_shape"
	SkipReasonInvalidRecord SkipReason = "invalid_record"
	SkipReasonCancelled     SkipReason = "cancelled"
)

// Outcome reports one input record, in input order. CaseID is empty when the
// record carried no usable id.
type Outcome struct {
	Index  int        `json:"index"`
	CaseID string     `json:"case_id,omitempty"`
	Status Status     `json:"status"`
	Reason SkipReason `json:"reason,omitempty"`
	Err    error      `json:"-"`
}

// Result is the output of AssembleAll.
type Result struct {
	Cases    []domain.Case `json:"cases"`
	Outcomes []Outcome     `json:"outcomes"`
}

// Assembler validates record shape against a compiled JSON Schema and maps
// valid records onto domain cases. It is safe for concurrent use.
type Assembler struct {
	schema  *jsonschema.Schema
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Assembler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assembler) {
		a.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New compiles the case record schema.
func New(opts ...Option) (*Assembler, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(caseRecordSchema)); err != nil {
		return nil, fmt.Errorf("case schema load failed: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("case schema compile failed: %w", err)
	}
	a := &Assembler{
		schema: schema,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Assemble validates and maps a single record. Every failure carries
// dErrors.CodeValidation.
func (a *Assembler) Assemble(raw models.CaseRecord) (domain.Case, error) {
	if raw == nil {
		return domain.Case{}, dErrors.New(dErrors.CodeValidation, "case record is empty")
	}
	doc, err := toJSONValue(raw)
	if err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, "case record is not valid JSON")
	}
	if err := a.schema.Validate(doc); err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, "case record "+describe(err))
	}
	return records.ToCase(raw)
}

// AssembleAll assembles every record, dropping invalid ones with a skipped
// outcome. It never fails as a whole; a cancelled ctx marks the remaining
// records as skipped.
func (a *Assembler) AssembleAll(ctx context.Context, raws []models.CaseRecord) Result {
	ctx, span := tracer.Start(ctx, "cases.AssembleAll",
		trace.WithAttributes(attribute.Int("casebook.records", len(raws))))
	defer span.End()

	result := Result{Cases: make([]domain.Case, 0, len(raws)), Outcomes: make([]Outcome, 0, len(raws))}
	for i, raw := range raws {
		outcome := Outcome{Index: i}
		if id, ok := raw["id"].(string); ok {
			outcome.CaseID = id
		}

		if err := ctx.Err(); err != nil {
			outcome.Status, outcome.Reason, outcome.Err = StatusSkipped, SkipReasonCancelled, err
			a.record(ctx, outcome, &result)
			continue
		}

		c, err := a.Assemble(raw)
		if err != nil {
			outcome.Status, outcome.Reason, outcome.Err = StatusSkipped, SkipReasonInvalidRecord, err
			var ve *jsonschema.ValidationError
			if errors.As(err, &ve) {
				outcome.Reason = SkipReasonInvalidShape
			}
			a.record(ctx, outcome, &result)
			continue
		}
		outcome.Status = StatusIncluded
		result.Cases = append(result.Cases, c)
		a.record(ctx, outcome, &result)
	}

	span.SetAttributes(attribute.Int("casebook.cases", len(result.Cases)))
	return result
}

func (a *Assembler) record(ctx context.Context, o Outcome, result *Result) {
	result.Outcomes = append(result.Outcomes, o)
	a.metrics.IncrementCase(string(o.Status))
	if o.Status == StatusSkipped {
		a.logger.DebugContext(ctx, "case record skipped",
			"index", o.Index,
			"case_id", o.CaseID,
			"reason", o.Reason,
			"request_id", requestcontext.RequestID(ctx),
			"error", o.Err,
		)
	}
}

// toJSONValue converts a record into the generic JSON values the schema
// validator accepts.
func toJSONValue(raw models.CaseRecord) (any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	// jsonschema/v5 expects number literals as json.Number.
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// describe names the first offending field of a schema failure.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", strings.TrimPrefix(ve.InstanceLocation, "/"), ve.Message)
}
