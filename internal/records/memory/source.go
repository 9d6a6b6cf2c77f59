// Package memory is an in-process record source used by tests and local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"casebook/internal/records"
	"casebook/internal/records/models"
	"casebook/pkg/platform/sentinel"
)

// Source keeps records in insertion order.
type Source struct {
	mu      sync.RWMutex
	actions map[string]models.ActionRecord
	rules   []models.RuleRecord
	cases   []models.CaseRecord
}

// Seed is the on-disk fixture format read by LoadFile.
type Seed struct {
	Actions []models.ActionRecord `json:"actions"`
	Rules   []models.RuleRecord   `json:"rules"`
	Cases   []models.CaseRecord   `json:"cases"`
}

func New() *Source {
	return &Source{actions: make(map[string]models.ActionRecord)}
}

// LoadFile builds a source from a JSON seed file.
func LoadFile(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	s := New()
	for _, a := range seed.Actions {
		s.PutAction(a)
	}
	for _, r := range seed.Rules {
		s.PutRule(r)
	}
	for _, c := range seed.Cases {
		s.PutCase(c)
	}
	return s, nil
}

func (s *Source) PutAction(rec models.ActionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.GUID
	if key == "" {
		key = rec.ID
	}
	s.actions[key] = rec
}

func (s *Source) PutRule(rec models.RuleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rec)
}

func (s *Source) PutCase(rec models.CaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = append(s.cases, rec)
}

func (s *Source) FindRules(ctx context.Context, q records.RuleQuery) ([]models.RuleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.RuleRecord
	for _, r := range s.rules {
		if q.ID != nil && r.ID != *q.ID {
			continue
		}
		if q.Jurisdiction != nil && !strings.EqualFold(r.Jurisdiction, *q.Jurisdiction) {
			continue
		}
		if q.ActionGUID != nil && (r.Rule == nil || r.Rule.About != *q.ActionGUID) {
			continue
		}
		matched = append(matched, r)
	}
	return window(matched, q.Page), nil
}

func (s *Source) FindCases(ctx context.Context, q records.CaseQuery) ([]models.CaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.CaseRecord
	for _, c := range s.cases {
		if q.Jurisdiction != nil {
			if j, _ := c["jurisdiction"].(string); !strings.EqualFold(j, *q.Jurisdiction) {
				continue
			}
		}
		matched = append(matched, c)
	}
	return window(matched, q.Page), nil
}

func (s *Source) FindAction(ctx context.Context, guid string) (*models.ActionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.actions[guid]
	if !ok {
		return nil, fmt.Errorf("action %s: %w", guid, sentinel.ErrNotFound)
	}
	return &rec, nil
}

func window[T any](items []T, page records.Page) []T {
	page = page.Normalize()
	if page.Skip >= len(items) {
		return []T{}
	}
	end := page.Skip + page.First
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[page.Skip:end]...)
}
