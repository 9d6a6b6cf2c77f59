// Package records defines the read-only port onto the external indexing
// service and the single place where raw records are mapped onto domain
// entities.
package records

import (
	"context"

	"casebook/internal/records/models"
)

// DefaultPageSize is used when a query does not set Page.First.
const DefaultPageSize = 100

// Page is a caller controlled window over an upstream collection.
type Page struct {
	First int `json:"first"`
	Skip  int `json:"skip"`
}

// Normalize applies DefaultPageSize and clamps negative offsets.
func (p Page) Normalize() Page {
	if p.First <= 0 {
		p.First = DefaultPageSize
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// RuleQuery filters rule records. Nil filters are ignored.
type RuleQuery struct {
	ID           *string
	Jurisdiction *string
	ActionGUID   *string
	Page         Page
}

// CaseQuery filters case records. Nil filters are ignored.
type CaseQuery struct {
	Jurisdiction *string
	Page         Page
}

// Source is the external record service. Implementations return
// sentinel.ErrNotFound (wrapped) for a missing action and a
// dErrors.CodeUnavailable error for transport failures.
//
//go:generate mockgen -source=source.go -destination=mocks/source_mock.go -package=mocks Source
type Source interface {
	FindRules(ctx context.Context, q RuleQuery) ([]models.RuleRecord, error)
	FindCases(ctx context.Context, q CaseQuery) ([]models.CaseRecord, error)
	FindAction(ctx context.Context, guid string) (*models.ActionRecord, error)
}

// Ptr is a helper for optional query filters.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
