package models

import (
	"strings"
	"time"

	dErrors "casebook/pkg/domain-errors"
)

// RoleName is a participant role within a case.
type RoleName string

const (
	RoleSubject  RoleName = "subject"
	RoleAffected RoleName = "affected"
	RoleWitness  RoleName = "witness"
	RoleAdmin    RoleName = "admin"
)

func (r RoleName) IsValid() bool {
	switch r {
	case RoleSubject, RoleAffected, RoleWitness, RoleAdmin:
		return true
	}
	return false
}

// Stage is the lifecycle stage of a case as reported by the indexer. The
// indexer may introduce stages this code does not know, so any non-empty
// value is accepted.
type Stage string

const (
	StageFiled          Stage = "filed"
	StageVerdictReached Stage = "verdict-reached"
	StageClosed         Stage = "closed"
)

// Role binds an account to a role in a case.
type Role struct {
	Account string   `json:"account"`
	Role    RoleName `json:"role"`
}

// Post is an evidence attachment made by a role holder.
type Post struct {
	Role RoleName `json:"role"`
	URI  string   `json:"uri"`
}

// RuleRef references a rule by jurisdiction and rule ID.
type RuleRef struct {
	Jurisdiction string `json:"jurisdiction"`
	RuleID       string `json:"ruleId"`
}

// Case is an instantiated dispute. Rules, Roles and Posts are owned by the case
// and are never nil.
type Case struct {
	ID           string    `json:"id"`
	CreatedDate  time.Time `json:"createdDate"`
	Jurisdiction string    `json:"jurisdiction"`
	Stage        Stage     `json:"stage"`
	Rules        []RuleRef `json:"rules"`
	Roles        []Role    `json:"roles"`
	Posts        []Post    `json:"posts"`
}

// NewCase validates identity fields and normalises the nested sequences.
func NewCase(id string, createdDate time.Time, jurisdiction string, stage Stage, rules []RuleRef, roles []Role, posts []Post) (Case, error) {
	if strings.TrimSpace(id) == "" {
		return Case{}, dErrors.New(dErrors.CodeValidation, "case id is required")
	}
	if strings.TrimSpace(jurisdiction) == "" {
		return Case{}, dErrors.New(dErrors.CodeValidation, "case jurisdiction is required")
	}
	if createdDate.IsZero() {
		return Case{}, dErrors.New(dErrors.CodeValidation, "case createdDate is required")
	}
	if strings.TrimSpace(string(stage)) == "" {
		return Case{}, dErrors.New(dErrors.CodeValidation, "case stage is required")
	}
	for i, r := range roles {
		if !r.Role.IsValid() {
			return Case{}, dErrors.Newf(dErrors.CodeValidation, "case role %d has unknown role %q", i, r.Role)
		}
	}
	for i, p := range posts {
		if !p.Role.IsValid() {
			return Case{}, dErrors.Newf(dErrors.CodeValidation, "case post %d has unknown role %q", i, p.Role)
		}
	}
	if rules == nil {
		rules = []RuleRef{}
	}
	if roles == nil {
		roles = []Role{}
	}
	if posts == nil {
		posts = []Post{}
	}
	return Case{
		ID:           id,
		CreatedDate:  createdDate.UTC(),
		Jurisdiction: jurisdiction,
		Stage:        stage,
		Rules:        rules,
		Roles:        roles,
		Posts:        posts,
	}, nil
}
