// Package models holds the raw record shapes returned by the indexing service.
//
// These types mirror the upstream schema and are deliberately loose: numeric
// fields may arrive as JSON strings or numbers, and optional objects may be
// missing. Conversion into domain entities lives in package records.
package models

import "encoding/json"

// ActionRecord is an indexed action entity. Older indexer versions expose the
// identifier as "id" and the descriptor as "uriData".
type ActionRecord struct {
	GUID     string          `json:"guid"`
	ID       string          `json:"id,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	URIData  json.RawMessage `json:"uriData,omitempty"`
}

// RuleBody is the nested "rule" object of a jurisdiction rule record.
type RuleBody struct {
	About    string  `json:"about"`
	Affected *string `json:"affected"`
	Negation bool    `json:"negation"`
	URI      *string `json:"uri"`
}

// ConfirmationRecord carries a rule's confirmation requirements. Witness is
// indexed as a BigInt and arrives as a string.
type ConfirmationRecord struct {
	Ruleset string          `json:"ruleset"`
	Witness json.RawMessage `json:"witness"`
}

// EffectRecord is a reputation effect attached to a rule.
type EffectRecord struct {
	Name        string          `json:"name"`
	Direction   bool            `json:"direction"`
	Value       json.RawMessage `json:"value"`
	Disposition string          `json:"disposition,omitempty"`
}

// RuleRecord is an indexed jurisdiction rule.
type RuleRecord struct {
	ID           string              `json:"id"`
	Jurisdiction string              `json:"jurisdiction"`
	RuleID       string              `json:"ruleId,omitempty"`
	Rule         *RuleBody           `json:"rule"`
	Confirmation *ConfirmationRecord `json:"confirmation"`
	Effects      []EffectRecord      `json:"effects,omitempty"`
}

// CaseRecord is an indexed case entity kept as decoded JSON so its shape can
// be validated before mapping.
type CaseRecord map[string]any
