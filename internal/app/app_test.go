package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casebook/internal/platform/config"
	"casebook/internal/records"
	"casebook/internal/submission"
)

const seed = `{
	"actions": [{"guid": "0xa", "metadata": {"name": "harassment"}}],
	"rules": [
		{"id": "1", "jurisdiction": "0xjur", "rule": {"about": "0xa"}, "confirmation": {"ruleset": "majority", "witness": "1"}},
		{"id": "2", "jurisdiction": "0xjur", "rule": {"about": "0xgone"}}
	],
	"cases": [
		{"id": "c1", "jurisdiction": "0xjur", "createdDate": "1700000000", "stage": 1},
		{"jurisdiction": "0xjur", "createdDate": "1700000000", "stage": 1}
	]
}`

func TestBuildFromSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	t.Setenv("CASEBOOK_SEED_FILE", path)
	t.Setenv("CASEBOOK_JURISDICTION", "0xjur")
	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	a, err := Build(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	defer a.Close()

	result, err := a.Service.GetLawsByJurisdiction(ctx, "", records.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0xa"}, result.Laws.Keys())
	assert.Len(t, result.Skipped(), 1)

	found, err := a.Service.GetCases(ctx, "0xjur", records.Page{})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	payload, err := a.Service.SubmitCase(ctx, submission.FormInputs{
		ActionGUID:      "0xa",
		RuleID:          "1",
		SubjectAccount:  "0xs",
		AffectedAccount: "0xf",
		WitnessAccounts: []string{"0xw"},
	})
	require.NoError(t, err)
	assert.Len(t, payload.Roles, 3)
}

func TestBuildWithoutSource(t *testing.T) {
	_, err := Build(context.Background(), config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	assert.Error(t, err)
}

func TestMigrateMirrorRequiresDatabaseURL(t *testing.T) {
	err := MigrateMirror(context.Background(), config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "DATABASE_URL")
}
