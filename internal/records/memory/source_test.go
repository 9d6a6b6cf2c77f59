package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casebook/internal/records"
	"casebook/internal/records/models"
	"casebook/pkg/platform/sentinel"
)

func rule(id, jurisdiction, about string) models.RuleRecord {
	return models.RuleRecord{ID: id, Jurisdiction: jurisdiction, Rule: &models.RuleBody{About: about}}
}

func TestFindRulesFiltersAndPages(t *testing.T) {
	s := New()
	s.PutRule(rule("r1", "0xJur", "0xa"))
	s.PutRule(rule("r2", "0xjur", "0xb"))
	s.PutRule(rule("r3", "0xother", "0xa"))
	s.PutRule(rule("r4", "0xjur", "0xa"))
	ctx := context.Background()

	got, err := s.FindRules(ctx, records.RuleQuery{Jurisdiction: records.Ptr("0xjur")})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r4"}, ids(got))

	got, err = s.FindRules(ctx, records.RuleQuery{ActionGUID: records.Ptr("0xa")})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3", "r4"}, ids(got))

	got, err = s.FindRules(ctx, records.RuleQuery{Page: records.Page{First: 2, Skip: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3"}, ids(got))

	got, err = s.FindRules(ctx, records.RuleQuery{Page: records.Page{Skip: 10}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindCasesByJurisdiction(t *testing.T) {
	s := New()
	s.PutCase(models.CaseRecord{"id": "c1", "jurisdiction": "0xjur"})
	s.PutCase(models.CaseRecord{"id": "c2", "jurisdiction": "0xother"})

	got, err := s.FindCases(context.Background(), records.CaseQuery{Jurisdiction: records.Ptr("0xJUR")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0]["id"])
}

func TestFindAction(t *testing.T) {
	s := New()
	s.PutAction(models.ActionRecord{ID: "0xlegacy"})

	rec, err := s.FindAction(context.Background(), "0xlegacy")
	require.NoError(t, err)
	assert.Equal(t, "0xlegacy", rec.ID)

	_, err = s.FindAction(context.Background(), "0xmissing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().FindRules(ctx, records.RuleQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"actions": [{"guid": "0xa", "metadata": {"name": "theft"}}],
		"rules": [{"id": "r1", "jurisdiction": "0xjur", "rule": {"about": "0xa"}}],
		"cases": [{"id": "c1", "jurisdiction": "0xjur"}]
	}`), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)

	rules, err := s.FindRules(context.Background(), records.RuleQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids(rules))

	_, err = s.FindAction(context.Background(), "0xa")
	require.NoError(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func ids(rules []models.RuleRecord) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.ID)
	}
	return out
}
