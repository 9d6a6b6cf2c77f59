package models

import (
	"encoding/json"

	dErrors "casebook/pkg/domain-errors"
)

// Law groups every rule that regulates the same action within one query scope.
//
// Invariants:
//   - every rule's ActionGUID equals Action.GUID
//   - rule IDs are unique; Rules keeps first-encounter order
type Law struct {
	Action Action `json:"action"`
	Rules  []Rule `json:"rules"`

	ids map[string]struct{}
}

// NewLaw creates an empty law for action.
func NewLaw(action Action) *Law {
	return &Law{Action: action, Rules: []Rule{}, ids: make(map[string]struct{})}
}

// AddRule appends rule unless a rule with the same ID is already present.
// It reports whether the rule was added; re-adding a known ID is a no-op.
func (l *Law) AddRule(rule Rule) (bool, error) {
	if rule.ActionGUID != l.Action.GUID {
		return false, dErrors.Newf(dErrors.CodeInvariantViolation,
			"rule %s regulates action %q, law is for %q", rule.ID, rule.ActionGUID, l.Action.GUID)
	}
	if l.ids == nil {
		l.ids = make(map[string]struct{}, len(l.Rules))
		for _, r := range l.Rules {
			l.ids[r.ID] = struct{}{}
		}
	}
	if _, ok := l.ids[rule.ID]; ok {
		return false, nil
	}
	l.ids[rule.ID] = struct{}{}
	l.Rules = append(l.Rules, rule)
	return true, nil
}

// Laws is a mapping from action GUID to Law that remembers insertion order.
type Laws struct {
	order []string
	byKey map[string]*Law
}

func NewLaws() *Laws {
	return &Laws{byKey: make(map[string]*Law)}
}

// Get returns the law for an action GUID.
func (l *Laws) Get(actionGUID string) (*Law, bool) {
	law, ok := l.byKey[actionGUID]
	return law, ok
}

// Set inserts or replaces the law for its action. A new key is appended to the
// iteration order; replacing keeps the original position.
func (l *Laws) Set(law *Law) {
	key := law.Action.GUID
	if _, ok := l.byKey[key]; !ok {
		l.order = append(l.order, key)
	}
	l.byKey[key] = law
}

// Keys returns action GUIDs in first-seen order.
func (l *Laws) Keys() []string {
	return append([]string(nil), l.order...)
}

// Values returns laws in first-seen order.
func (l *Laws) Values() []*Law {
	out := make([]*Law, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, l.byKey[k])
	}
	return out
}

func (l *Laws) Len() int {
	return len(l.order)
}

// MarshalJSON encodes laws as an array so consumers keep the encounter order.
func (l *Laws) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Values())
}
