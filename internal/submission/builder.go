// Package submission shapes case submission requests and hands them to the
// relay that writes them on chain.
package submission

import (
	"fmt"
	"strings"

	domain "casebook/internal/jurisdiction/models"
	dErrors "casebook/pkg/domain-errors"
)

// DefaultCaseName is used when the form leaves the name empty.
const DefaultCaseName = "TEST_CASE"

// PostInput is a post attached to a new case.
type PostInput struct {
	PosterRole domain.RoleName `json:"entRole"`
	URI        string          `json:"uri"`
}

// Payload is the request to open a case. Field order inside Roles is
// significant: subject, affected, then witnesses.
type Payload struct {
	Name  string           `json:"name"`
	Rules []domain.RuleRef `json:"rules"`
	Roles []domain.Role    `json:"roles"`
	Posts []PostInput      `json:"posts"`
}

// InsufficientWitnessesError reports a form with fewer witnesses than the
// rule's confirmation requires.
type InsufficientWitnessesError struct {
	Required int
	Provided int
}

func (e *InsufficientWitnessesError) Error() string {
	return fmt.Sprintf("insufficient witnesses: required %d, got %d", e.Required, e.Provided)
}

// Build validates form against rule and returns the submission payload. It
// performs no I/O. All failures carry dErrors.CodeValidation.
func Build(form FormInputs, rule domain.Rule, jurisdiction string) (Payload, error) {
	form = form.Normalized()
	if field, ok := missingField(form); ok {
		return Payload{}, dErrors.Newf(dErrors.CodeValidation, "%s is required", field)
	}
	if strings.TrimSpace(jurisdiction) == "" {
		return Payload{}, dErrors.New(dErrors.CodeValidation, "jurisdiction is required")
	}
	if rule.ID != form.RuleID {
		return Payload{}, dErrors.Newf(dErrors.CodeValidation, "rule %s does not match ruleId %s", rule.ID, form.RuleID)
	}
	if rule.ActionGUID != form.ActionGUID {
		return Payload{}, dErrors.Newf(dErrors.CodeValidation,
			"rule %s regulates action %s, not %s", rule.ID, rule.ActionGUID, form.ActionGUID)
	}

	witnesses := make([]string, 0, len(form.WitnessAccounts))
	for i, w := range form.WitnessAccounts {
		if w == "" {
			return Payload{}, dErrors.Newf(dErrors.CodeValidation, "witness %d has no account", i)
		}
		witnesses = append(witnesses, w)
	}
	if required := rule.RequiredWitnessCount(); len(witnesses) < required {
		return Payload{}, dErrors.Wrap(
			&InsufficientWitnessesError{Required: required, Provided: len(witnesses)},
			dErrors.CodeValidation, "case submission rejected")
	}

	name := form.Name
	if name == "" {
		name = DefaultCaseName
	}

	roles := make([]domain.Role, 0, 2+len(witnesses))
	roles = append(roles,
		domain.Role{Account: form.SubjectAccount, Role: domain.RoleSubject},
		domain.Role{Account: form.AffectedAccount, Role: domain.RoleAffected},
	)
	for _, w := range witnesses {
		roles = append(roles, domain.Role{Account: w, Role: domain.RoleWitness})
	}

	return Payload{
		Name:  name,
		Rules: []domain.RuleRef{{Jurisdiction: jurisdiction, RuleID: rule.ID}},
		Roles: roles,
		Posts: []PostInput{{PosterRole: domain.RoleAdmin, URI: form.EvidenceURI}},
	}, nil
}
