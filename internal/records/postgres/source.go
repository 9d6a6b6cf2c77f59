// Package postgres reads a PostgreSQL mirror of the indexer's entities. The
// mirror is populated by an external sync job. The only write is Migrate,
// run on demand by "casebook migrate".
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"casebook/internal/records"
	"casebook/internal/records/metrics"
	"casebook/internal/records/models"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/sentinel"
)

const sourceName = "postgres"

//go:embed schema.sql
var schema string

// Migrate creates the mirror tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate record mirror: %w", err)
	}
	return nil
}

// Source implements records.Source over the mirror tables.
type Source struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func New(db *sql.DB, m *metrics.Metrics) *Source {
	return &Source{db: db, metrics: m}
}

func (s *Source) FindRules(ctx context.Context, q records.RuleQuery) ([]models.RuleRecord, error) {
	page := q.Page.Normalize()
	start := time.Now()
	defer func() { s.metrics.ObserveFetch(sourceName, "rules", time.Since(start)) }()

	var jurisdiction *string
	if q.Jurisdiction != nil {
		j := strings.ToLower(*q.Jurisdiction)
		jurisdiction = &j
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, jurisdiction, rule_id, about, affected, negation, uri,
		       confirmation_ruleset, confirmation_witness, effects
		FROM indexed_rules
		WHERE ($1::text IS NULL OR id = $1)
		  AND ($2::text IS NULL OR lower(jurisdiction) = $2)
		  AND ($3::text IS NULL OR about = $3)
		ORDER BY id
		LIMIT $4 OFFSET $5`,
		q.ID, jurisdiction, q.ActionGUID, page.First, page.Skip)
	if err != nil {
		return nil, s.fail("rules", err)
	}
	defer rows.Close()

	out := []models.RuleRecord{}
	for rows.Next() {
		var (
			rec              models.RuleRecord
			about            sql.NullString
			affected, uri    sql.NullString
			negation         bool
			ruleset, witness sql.NullString
			effects          []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Jurisdiction, &rec.RuleID, &about, &affected, &negation, &uri,
			&ruleset, &witness, &effects); err != nil {
			return nil, s.fail("rules", err)
		}
		if about.Valid {
			rec.Rule = &models.RuleBody{
				About:    about.String,
				Affected: nullable(affected),
				Negation: negation,
				URI:      nullable(uri),
			}
		}
		if ruleset.Valid || witness.Valid {
			rec.Confirmation = &models.ConfirmationRecord{Ruleset: ruleset.String}
			if witness.Valid {
				rec.Confirmation.Witness, _ = json.Marshal(witness.String)
			}
		}
		if len(effects) > 0 {
			// A malformed effects column leaves Effects empty; the rule itself is still usable.
			_ = json.Unmarshal(effects, &rec.Effects)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("rules", err)
	}
	return out, nil
}

func (s *Source) FindCases(ctx context.Context, q records.CaseQuery) ([]models.CaseRecord, error) {
	page := q.Page.Normalize()
	start := time.Now()
	defer func() { s.metrics.ObserveFetch(sourceName, "cases", time.Since(start)) }()

	var jurisdiction *string
	if q.Jurisdiction != nil {
		j := strings.ToLower(*q.Jurisdiction)
		jurisdiction = &j
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT document
		FROM indexed_cases
		WHERE ($1::text IS NULL OR lower(jurisdiction) = $1)
		ORDER BY created_date DESC, id
		LIMIT $2 OFFSET $3`,
		jurisdiction, page.First, page.Skip)
	if err != nil {
		return nil, s.fail("cases", err)
	}
	defer rows.Close()

	out := []models.CaseRecord{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, s.fail("cases", err)
		}
		var rec models.CaseRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			// Keep the slot so the assembler reports the record as skipped.
			rec = models.CaseRecord{}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("cases", err)
	}
	return out, nil
}

func (s *Source) FindAction(ctx context.Context, guid string) (*models.ActionRecord, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveFetch(sourceName, "action", time.Since(start)) }()

	var (
		rec  models.ActionRecord
		meta []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT guid, metadata FROM indexed_actions WHERE guid = $1`, guid).
		Scan(&rec.GUID, &meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action %s: %w", guid, sentinel.ErrNotFound)
		}
		return nil, s.fail("action", err)
	}
	rec.Metadata = meta
	return &rec, nil
}

func (s *Source) fail(entity string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.metrics.IncrementFetchError(sourceName, entity, string(dErrors.CodeUnavailable))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "undefined_table" {
		return dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
			"record mirror schema is missing, run casebook migrate")
	}
	return dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
		fmt.Sprintf("query %s mirror", entity))
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
