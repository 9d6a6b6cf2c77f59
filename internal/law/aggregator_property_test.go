//go:build property

package law

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	domain "casebook/internal/jurisdiction/models"
)

// rulesFrom builds rules over a small alphabet of actions so that repeats
// are common. Actions "x*" are unknown to the resolver.
func rulesFrom(actions []string, ids []int) []domain.Rule {
	rules := make([]domain.Rule, 0, len(actions))
	for i, a := range actions {
		id := i
		if i < len(ids) {
			id = ids[i]
		}
		rules = append(rules, rule(fmt.Sprintf("r%d", id), a))
	}
	return rules
}

var actionGen = gen.OneConstOf("A", "B", "C", "D", "xA", "xB")

func TestAggregateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("keys are exactly the distinct resolvable actions in first-seen order", prop.ForAll(
		func(actions []string) bool {
			agg := New(newStubResolver("A", "B", "C", "D"), WithConcurrency(3))
			result, err := agg.Aggregate(context.Background(), rulesFrom(actions, nil))
			if err != nil {
				return false
			}
			var want []string
			seen := map[string]bool{}
			for _, a := range actions {
				if a[0] == 'x' || seen[a] {
					continue
				}
				seen[a] = true
				want = append(want, a)
			}
			return fmt.Sprint(want) == fmt.Sprint(result.Laws.Keys()) || (len(want) == 0 && result.Laws.Len() == 0)
		},
		gen.SliceOf(actionGen),
	))

	properties.Property("each rule id appears at most once per law", prop.ForAll(
		func(actions []string, ids []int) bool {
			agg := New(newStubResolver("A", "B", "C", "D"))
			result, err := agg.Aggregate(context.Background(), rulesFrom(actions, ids))
			if err != nil {
				return false
			}
			for _, law := range result.Laws.Values() {
				seen := map[string]bool{}
				for _, r := range law.Rules {
					if seen[r.ID] {
						return false
					}
					seen[r.ID] = true
				}
			}
			return len(result.Outcomes) == len(actions)
		},
		gen.SliceOf(actionGen),
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.Property("each distinct action is resolved once per pass", prop.ForAll(
		func(actions []string) bool {
			resolver := newStubResolver("A", "B", "C", "D")
			if _, err := New(resolver).Aggregate(context.Background(), rulesFrom(actions, nil)); err != nil {
				return false
			}
			for _, n := range resolver.calls {
				if n != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(actionGen),
	))

	properties.TestingRun(t)
}
