package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/records/models"
	dErrors "casebook/pkg/domain-errors"
)

// stageByIndex maps the indexer's numeric case stages.
var stageByIndex = []domain.Stage{
	"draft",
	domain.StageFiled,
	domain.StageVerdictReached,
	domain.StageClosed,
	"cancelled",
}

// ToAction maps an action record. GUID falls back to the legacy "id" field and
// Metadata to the legacy "uriData" field.
func ToAction(rec models.ActionRecord) (domain.Action, error) {
	guid := strings.TrimSpace(rec.GUID)
	if guid == "" {
		guid = strings.TrimSpace(rec.ID)
	}
	if guid == "" {
		return domain.Action{}, dErrors.New(dErrors.CodeValidation, "action record has no guid")
	}
	meta := rec.Metadata
	if isNullJSON(meta) {
		meta = rec.URIData
	}
	if isNullJSON(meta) {
		meta = nil
	}
	return domain.Action{GUID: guid, Metadata: meta}, nil
}

// ToRule maps a rule record. A rule record without its nested rule body is
// malformed. A missing or non-numeric witness count maps to 0.
func ToRule(rec models.RuleRecord) (domain.Rule, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return domain.Rule{}, dErrors.New(dErrors.CodeValidation, "rule record has no id")
	}
	if rec.Rule == nil {
		return domain.Rule{}, dErrors.Newf(dErrors.CodeValidation, "rule record %s has no rule body", rec.ID)
	}
	rule := domain.Rule{
		ID:           rec.ID,
		Jurisdiction: rec.Jurisdiction,
		ActionGUID:   strings.TrimSpace(rec.Rule.About),
		Affected:     rec.Rule.Affected,
		Negation:     rec.Rule.Negation,
		URI:          rec.Rule.URI,
	}
	if rec.Confirmation != nil {
		rule.Confirmation = domain.Confirmation{
			Ruleset: rec.Confirmation.Ruleset,
			Witness: coerceCount(rec.Confirmation.Witness),
		}
	}
	for _, e := range rec.Effects {
		rule.Effects = append(rule.Effects, domain.Effect{
			Name:        e.Name,
			Direction:   e.Direction,
			Value:       coerceInt(e.Value),
			Disposition: e.Disposition,
		})
	}
	return rule, nil
}

type caseDoc struct {
	ID           string          `json:"id"`
	CreatedDate  json.RawMessage `json:"createdDate"`
	Jurisdiction string          `json:"jurisdiction"`
	Stage        json.RawMessage `json:"stage"`
	Rules        []caseRuleDoc   `json:"rules"`
	Roles        []caseRoleDoc   `json:"roles"`
	Posts        []casePostDoc   `json:"posts"`
}

type caseRuleDoc struct {
	Jurisdiction string `json:"jurisdiction"`
	RuleID       string `json:"ruleId"`
}

// caseRoleDoc accepts both the flat {account, role} binding and the grouped
// {role, accounts: [...]} shape of newer indexer versions.
type caseRoleDoc struct {
	Account  string   `json:"account"`
	Accounts []string `json:"accounts"`
	Role     string   `json:"role"`
}

// casePostDoc accepts "entRole" as written by the contract and "role".
type casePostDoc struct {
	Role    string `json:"role"`
	EntRole string `json:"entRole"`
	URI     string `json:"uri"`
}

// ToCase maps a case record onto a validated Case.
func ToCase(rec models.CaseRecord) (domain.Case, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, "case record is not valid JSON")
	}
	var doc caseDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, "case record has unexpected shape")
	}

	created, err := parseTimestamp(doc.CreatedDate)
	if err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("case %s: invalid createdDate", doc.ID))
	}
	stage, err := parseStage(doc.Stage)
	if err != nil {
		return domain.Case{}, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("case %s: invalid stage", doc.ID))
	}

	rules := make([]domain.RuleRef, 0, len(doc.Rules))
	for i, r := range doc.Rules {
		if r.RuleID == "" {
			return domain.Case{}, dErrors.Newf(dErrors.CodeValidation, "case %s: rule %d has no ruleId", doc.ID, i)
		}
		jurisdiction := r.Jurisdiction
		if jurisdiction == "" {
			jurisdiction = doc.Jurisdiction
		}
		rules = append(rules, domain.RuleRef{Jurisdiction: jurisdiction, RuleID: r.RuleID})
	}

	roles := make([]domain.Role, 0, len(doc.Roles))
	for _, r := range doc.Roles {
		name := domain.RoleName(r.Role)
		if r.Account != "" {
			roles = append(roles, domain.Role{Account: r.Account, Role: name})
		}
		for _, account := range r.Accounts {
			roles = append(roles, domain.Role{Account: account, Role: name})
		}
	}

	posts := make([]domain.Post, 0, len(doc.Posts))
	for _, p := range doc.Posts {
		role := p.Role
		if role == "" {
			role = p.EntRole
		}
		posts = append(posts, domain.Post{Role: domain.RoleName(role), URI: p.URI})
	}

	return domain.NewCase(doc.ID, created, doc.Jurisdiction, stage, rules, roles, posts)
}

// coerceCount reads a count from a JSON number or numeric string. Fractions
// round up, values beyond int saturate at math.MaxInt, and negative, NaN or
// non-numeric input is 0.
func coerceCount(raw json.RawMessage) int {
	f, ok := numeric(raw)
	switch {
	case !ok, math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	default:
		return int(math.Ceil(f))
	}
}

// coerceInt reads a signed integer, truncating fractions and saturating at
// the int range. Non-numeric input is 0.
func coerceInt(raw json.RawMessage) int {
	f, ok := numeric(raw)
	switch {
	case !ok, math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(f)
	}
}

func numeric(raw json.RawMessage) (float64, bool) {
	if isNullJSON(raw) {
		return 0, false
	}
	var text string
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		text = n.String()
	} else if err := json.Unmarshal(raw, &text); err != nil {
		return 0, false
	}
	text = strings.TrimSpace(text)
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// parseTimestamp reads unix seconds as a number or numeric string, or an
// RFC 3339 string.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if isNullJSON(raw) {
		return time.Time{}, fmt.Errorf("missing")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		secs, err := n.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("not an integer: %s", n)
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("not a string or number")
	}
	if secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
	}
	return t.UTC(), nil
}

func parseStage(raw json.RawMessage) (domain.Stage, error) {
	if isNullJSON(raw) {
		return "", fmt.Errorf("missing")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		i, err := strconv.Atoi(n.String())
		if err != nil || i < 0 || i >= len(stageByIndex) {
			return "", fmt.Errorf("unknown stage index %s", n)
		}
		return stageByIndex[i], nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("not a string or number")
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("empty")
	}
	return domain.Stage(s), nil
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
