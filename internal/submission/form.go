package submission

import "strings"

// Field is an input of the case submission form.
type Field string

const (
	FieldAction    Field = "actionGuid"
	FieldRule      Field = "ruleId"
	FieldSubject   Field = "subjectAccount"
	FieldAffected  Field = "affectedAccount"
	FieldEvidence  Field = "evidenceUri"
	FieldWitnesses Field = "witnessAccounts"
)

// FieldDependencies maps each field to the fields that must be filled before
// it becomes meaningful. Picking an action reveals the rule; picking a rule
// reveals the participants and evidence.
var FieldDependencies = map[Field][]Field{
	FieldAction:    nil,
	FieldRule:      {FieldAction},
	FieldSubject:   {FieldRule},
	FieldAffected:  {FieldRule},
	FieldEvidence:  {FieldRule},
	FieldWitnesses: {FieldRule},
}

// fieldOrder is a topological order of FieldDependencies; validation walks it
// so the first reported problem is the most upstream one.
var fieldOrder = []Field{FieldAction, FieldRule, FieldSubject, FieldAffected, FieldEvidence, FieldWitnesses}

var requiredFields = map[Field]bool{
	FieldAction:   true,
	FieldRule:     true,
	FieldSubject:  true,
	FieldAffected: true,
}

// FormInputs is what a user supplies to open a case.
type FormInputs struct {
	ActionGUID      string   `json:"actionGuid"`
	RuleID          string   `json:"ruleId"`
	SubjectAccount  string   `json:"subjectAccount"`
	AffectedAccount string   `json:"affectedAccount"`
	EvidenceURI     string   `json:"evidenceUri"`
	WitnessAccounts []string `json:"witnessAccounts"`
	Name            string   `json:"name,omitempty"`
}

func (f FormInputs) filled(field Field) bool {
	switch field {
	case FieldAction:
		return strings.TrimSpace(f.ActionGUID) != ""
	case FieldRule:
		return strings.TrimSpace(f.RuleID) != ""
	case FieldSubject:
		return strings.TrimSpace(f.SubjectAccount) != ""
	case FieldAffected:
		return strings.TrimSpace(f.AffectedAccount) != ""
	case FieldEvidence:
		return strings.TrimSpace(f.EvidenceURI) != ""
	case FieldWitnesses:
		return len(f.WitnessAccounts) > 0
	}
	return false
}

// Normalized returns a copy with surrounding whitespace removed from every
// field. Blank witnesses stay in place so Build can report them by index.
func (f FormInputs) Normalized() FormInputs {
	out := FormInputs{
		ActionGUID:      strings.TrimSpace(f.ActionGUID),
		RuleID:          strings.TrimSpace(f.RuleID),
		SubjectAccount:  strings.TrimSpace(f.SubjectAccount),
		AffectedAccount: strings.TrimSpace(f.AffectedAccount),
		EvidenceURI:     strings.TrimSpace(f.EvidenceURI),
		Name:            strings.TrimSpace(f.Name),
	}
	if f.WitnessAccounts != nil {
		out.WitnessAccounts = make([]string, len(f.WitnessAccounts))
		for i, w := range f.WitnessAccounts {
			out.WitnessAccounts[i] = strings.TrimSpace(w)
		}
	}
	return out
}

// VisibleFields returns the fields whose dependencies are all filled, in
// form order.
func VisibleFields(f FormInputs) []Field {
	var out []Field
	for _, field := range fieldOrder {
		visible := true
		for _, dep := range FieldDependencies[field] {
			if !f.filled(dep) {
				visible = false
				break
			}
		}
		if visible {
			out = append(out, field)
		}
	}
	return out
}

// missingField returns the first required field, in dependency order, that
// is empty.
func missingField(f FormInputs) (Field, bool) {
	for _, field := range fieldOrder {
		if requiredFields[field] && !f.filled(field) {
			return field, true
		}
	}
	return "", false
}
