// Package service is the query facade consumers use to read laws and cases of
// a jurisdiction and to open new cases.
package service

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"casebook/internal/cases"
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law"
	"casebook/internal/records"
	"casebook/internal/submission"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/requestcontext"
)

var tracer = otel.Tracer("casebook/jurisdiction")

// Service composes the record source, law aggregator and case assembler.
type Service struct {
	source              records.Source
	aggregator          *law.Aggregator
	assembler           *cases.Assembler
	publisher           submission.SubmissionPublisher
	defaultJurisdiction string
	logger              *slog.Logger
}

type Option func(*Service)

// WithPublisher sets where SubmitCase sends payloads. Without it submissions
// are discarded.
func WithPublisher(p submission.SubmissionPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithDefaultJurisdiction is used when a caller does not name a jurisdiction.
func WithDefaultJurisdiction(address string) Option {
	return func(s *Service) {
		s.defaultJurisdiction = strings.TrimSpace(address)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(source records.Source, aggregator *law.Aggregator, assembler *cases.Assembler, opts ...Option) *Service {
	s := &Service{
		source:     source,
		aggregator: aggregator,
		assembler:  assembler,
		publisher:  submission.NopPublisher{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindRules queries rule records and maps them onto domain rules. Malformed
// records are dropped; a failed page fetch is returned as is.
func (s *Service) FindRules(ctx context.Context, ruleID, jurisdiction, actionGUID *string, page records.Page) ([]domain.Rule, error) {
	recs, err := s.source.FindRules(ctx, records.RuleQuery{
		ID:           ruleID,
		Jurisdiction: jurisdiction,
		ActionGUID:   actionGUID,
		Page:         page,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "rule page fetch failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, err
	}
	rules := make([]domain.Rule, 0, len(recs))
	for _, rec := range recs {
		rule, err := records.ToRule(rec)
		if err != nil {
			s.logger.DebugContext(ctx, "rule record dropped",
				"record_id", rec.ID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// GetRuleByID returns the rule with id, or a CodeNotFound error.
func (s *Service) GetRuleByID(ctx context.Context, id string) (domain.Rule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Rule{}, dErrors.New(dErrors.CodeValidation, "rule id is required")
	}
	rules, err := s.FindRules(ctx, &id, nil, nil, records.Page{First: 1})
	if err != nil {
		return domain.Rule{}, err
	}
	if len(rules) == 0 {
		return domain.Rule{}, dErrors.Newf(dErrors.CodeNotFound, "rule %s not found", id)
	}
	return rules[0], nil
}

func (s *Service) GetLawsByRules(ctx context.Context, rules []domain.Rule) (*law.Result, error) {
	return s.aggregator.Aggregate(ctx, rules)
}

// GetLawsByJurisdiction reads one page of the jurisdiction's rules and groups
// them into laws.
func (s *Service) GetLawsByJurisdiction(ctx context.Context, jurisdiction string, page records.Page) (*law.Result, error) {
	jurisdiction, err := s.jurisdiction(jurisdiction)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "jurisdiction.GetLawsByJurisdiction",
		trace.WithAttributes(attribute.String("casebook.jurisdiction", jurisdiction)))
	defer span.End()

	rules, err := s.FindRules(ctx, nil, &jurisdiction, nil, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule fetch failed")
		return nil, err
	}
	return s.GetLawsByRules(ctx, rules)
}

// GetCases reads one page of the jurisdiction's cases and returns the ones
// that validate.
func (s *Service) GetCases(ctx context.Context, jurisdiction string, page records.Page) ([]domain.Case, error) {
	jurisdiction, err := s.jurisdiction(jurisdiction)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "jurisdiction.GetCases",
		trace.WithAttributes(attribute.String("casebook.jurisdiction", jurisdiction)))
	defer span.End()

	raws, err := s.source.FindCases(ctx, records.CaseQuery{Jurisdiction: &jurisdiction, Page: page})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "case fetch failed")
		s.logger.ErrorContext(ctx, "case page fetch failed",
			"jurisdiction", jurisdiction,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, err
	}
	return s.assembler.AssembleAll(ctx, raws).Cases, nil
}

// BuildCaseSubmission resolves the form's rule and shapes the payload. A
// rule that does not exist is a validation failure of the form.
func (s *Service) BuildCaseSubmission(ctx context.Context, form submission.FormInputs) (submission.Payload, error) {
	form = form.Normalized()
	if form.RuleID == "" || form.ActionGUID == "" {
		// Let the builder report the first missing field in form order.
		return submission.Build(form, domain.Rule{}, s.defaultJurisdiction)
	}
	rule, err := s.GetRuleByID(ctx, form.RuleID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return submission.Payload{}, dErrors.Wrap(err, dErrors.CodeValidation, "ruleId")
		}
		return submission.Payload{}, err
	}
	jurisdiction := rule.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = s.defaultJurisdiction
	}
	return submission.Build(form, rule, jurisdiction)
}

// SubmitCase builds the payload and hands it to the publisher.
func (s *Service) SubmitCase(ctx context.Context, form submission.FormInputs) (submission.Payload, error) {
	ctx, span := tracer.Start(ctx, "jurisdiction.SubmitCase")
	defer span.End()

	payload, err := s.BuildCaseSubmission(ctx, form)
	if err != nil {
		span.RecordError(err)
		return submission.Payload{}, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return submission.Payload{}, err
	}
	return payload, nil
}

func (s *Service) jurisdiction(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		address = s.defaultJurisdiction
	}
	if address == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "jurisdiction is required")
	}
	return address, nil
}
