package models

// Confirmation is the evidence a case referencing a rule must carry before it
// can be submitted.
type Confirmation struct {
	Ruleset string `json:"ruleset"`
	Witness int    `json:"witness"`
}

// Effect is a reputation change a rule applies to the affected party.
type Effect struct {
	Name        string `json:"name"`
	Direction   bool   `json:"direction"`
	Value       int    `json:"value"`
	Disposition string `json:"disposition,omitempty"`
}

// Rule is a single indexed jurisdiction rule. Identity is ID. Rules are owned by
// the record source and never mutated after mapping.
type Rule struct {
	ID           string       `json:"id"`
	Jurisdiction string       `json:"jurisdiction,omitempty"`
	ActionGUID   string       `json:"actionGuid"`
	Affected     *string      `json:"affected"`
	Negation     bool         `json:"negation"`
	URI          *string      `json:"uri"`
	Confirmation Confirmation `json:"confirmation"`
	Effects      []Effect     `json:"effects,omitempty"`
}

// RequiredWitnessCount is the minimum number of witness bindings a case
// referencing this rule needs.
func (r Rule) RequiredWitnessCount() int {
	if r.Confirmation.Witness < 0 {
		return 0
	}
	return r.Confirmation.Witness
}
