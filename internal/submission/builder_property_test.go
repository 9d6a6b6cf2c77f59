//go:build property

package submission

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	domain "casebook/internal/jurisdiction/models"
)

func TestBuildWitnessProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("build succeeds iff witnesses meet the requirement", prop.ForAll(
		func(required, provided int) bool {
			witnesses := make([]string, provided)
			for i := range witnesses {
				witnesses[i] = fmt.Sprintf("0xw%d", i)
			}
			payload, err := Build(form(witnesses...), ruleRequiring(required), "0xjur")
			if provided < required {
				return err != nil
			}
			if err != nil || len(payload.Roles) != 2+provided {
				return false
			}
			if payload.Roles[0].Role != domain.RoleSubject || payload.Roles[1].Role != domain.RoleAffected {
				return false
			}
			for _, r := range payload.Roles[2:] {
				if r.Role != domain.RoleWitness {
					return false
				}
			}
			return true
		},
		gen.IntRange(-2, 6),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}
