package law

import (
	domain "casebook/internal/jurisdiction/models"
)

// Status is what happened to one input rule during aggregation.
type Status string

const (
	StatusIncluded  Status = "included"
	StatusDuplicate Status = "duplicate"
	StatusSkipped   Status = "skipped"
)

// SkipReason explains a StatusSkipped outcome.
type SkipReason string

const (
	SkipReasonMissingAction      SkipReason = "missing_action"
	SkipReasonActionNotFound     SkipReason = "action_not_found"
	SkipReasonActionUnresolvable SkipReason = "action_unresolvable"
	SkipReasonCancelled          SkipReason = "cancelled"
)

// Outcome reports one input rule, in input order.
type Outcome struct {
	RuleID     string     `json:"rule_id"`
	ActionGUID string     `json:"action_guid"`
	Status     Status     `json:"status"`
	Reason     SkipReason `json:"reason,omitempty"`
	Err        error      `json:"-"`
}

// Result is the output of one aggregation pass.
type Result struct {
	Laws     *domain.Laws `json:"laws"`
	Outcomes []Outcome    `json:"outcomes"`
}

// Skipped returns the outcomes of rules that were left out of every law.
func (r *Result) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			out = append(out, o)
		}
	}
	return out
}
