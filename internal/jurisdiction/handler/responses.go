package handler

import (
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law"
)

// LawsResponse is the HTTP response for GET /jurisdictions/{address}/laws.
type LawsResponse struct {
	Laws    []*domain.Law     `json:"laws"`
	Skipped []SkippedResponse `json:"skipped"`
}

// SkippedResponse describes a rule left out of every law.
type SkippedResponse struct {
	RuleID     string `json:"rule_id"`
	ActionGUID string `json:"action_guid,omitempty"`
	Reason     string `json:"reason"`
}

// CasesResponse is the HTTP response for GET /jurisdictions/{address}/cases.
type CasesResponse struct {
	Cases []domain.Case `json:"cases"`
}

func FromLawResult(result *law.Result) *LawsResponse {
	resp := &LawsResponse{
		Laws:    result.Laws.Values(),
		Skipped: []SkippedResponse{},
	}
	for _, o := range result.Skipped() {
		resp.Skipped = append(resp.Skipped, SkippedResponse{
			RuleID:     o.RuleID,
			ActionGUID: o.ActionGUID,
			Reason:     string(o.Reason),
		})
	}
	return resp
}
