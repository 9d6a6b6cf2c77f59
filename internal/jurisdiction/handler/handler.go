package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law"
	"casebook/internal/records"
	"casebook/internal/submission"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/httputil"
	"casebook/pkg/requestcontext"
)

// Service is the jurisdiction query facade.
//
//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service
type Service interface {
	GetRuleByID(ctx context.Context, id string) (domain.Rule, error)
	GetLawsByJurisdiction(ctx context.Context, jurisdiction string, page records.Page) (*law.Result, error)
	GetCases(ctx context.Context, jurisdiction string, page records.Page) ([]domain.Case, error)
	BuildCaseSubmission(ctx context.Context, form submission.FormInputs) (submission.Payload, error)
	SubmitCase(ctx context.Context, form submission.FormInputs) (submission.Payload, error)
}

// Handler wires jurisdiction endpoints to the facade.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts jurisdiction endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/jurisdictions/{address}/laws", h.HandleLaws)
	r.Get("/jurisdictions/{address}/cases", h.HandleCases)
	r.Get("/rules/{id}", h.HandleRule)
	r.Post("/cases/submissions", h.HandleSubmit)
	r.Post("/cases/submissions/preview", h.HandlePreview)
}

// HandleLaws handles GET /jurisdictions/{address}/laws.
func (h *Handler) HandleLaws(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pageFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	address := chi.URLParam(r, "address")

	result, err := h.service.GetLawsByJurisdiction(ctx, address, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "get laws failed",
			"jurisdiction", address,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromLawResult(result))
}

// HandleCases handles GET /jurisdictions/{address}/cases.
func (h *Handler) HandleCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pageFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	address := chi.URLParam(r, "address")

	found, err := h.service.GetCases(ctx, address, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "get cases failed",
			"jurisdiction", address,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CasesResponse{Cases: found})
}

// HandleRule handles GET /rules/{id}.
func (h *Handler) HandleRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rule, err := h.service.GetRuleByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "get rule failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rule)
}

// HandlePreview handles POST /cases/submissions/preview. It validates and
// shapes the submission without publishing it.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	form, ok := httputil.DecodeJSON[submission.FormInputs](w, r)
	if !ok {
		return
	}
	payload, err := h.service.BuildCaseSubmission(r.Context(), form)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandleSubmit handles POST /cases/submissions.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, ok := httputil.DecodeJSON[submission.FormInputs](w, r)
	if !ok {
		return
	}
	payload, err := h.service.SubmitCase(ctx, form)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "case submission rejected",
				"rule_id", form.RuleID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "case submission failed",
				"rule_id", form.RuleID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "case submitted",
		"rule_id", form.RuleID,
		"witnesses", len(form.WitnessAccounts),
		"request_id", requestcontext.RequestID(ctx),
		"duration_ms", requestcontext.Since(ctx, time.Now()).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, payload)
}

func pageFrom(r *http.Request) (records.Page, error) {
	var page records.Page
	q := r.URL.Query()
	for name, dst := range map[string]*int{"first": &page.First, "skip": &page.Skip} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return records.Page{}, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a non-negative integer", name)
		}
		*dst = n
	}
	if page.First > maxPageSize {
		page.First = maxPageSize
	}
	return page, nil
}

const maxPageSize = 1000
