package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "casebook/pkg/domain-errors"
)

func TestLawAddRuleDeduplicatesByID(t *testing.T) {
	law := NewLaw(Action{GUID: "harassment"})

	added, err := law.AddRule(Rule{ID: "1", ActionGUID: "harassment"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = law.AddRule(Rule{ID: "1", ActionGUID: "harassment", Negation: true})
	require.NoError(t, err)
	assert.False(t, added)

	require.Len(t, law.Rules, 1)
	assert.False(t, law.Rules[0].Negation, "first sighting wins")
}

func TestLawRejectsRuleForAnotherAction(t *testing.T) {
	law := NewLaw(Action{GUID: "harassment"})
	_, err := law.AddRule(Rule{ID: "1", ActionGUID: "theft"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.Empty(t, law.Rules)
}

func TestLawsKeepsInsertionOrder(t *testing.T) {
	laws := NewLaws()
	for _, guid := range []string{"b", "a", "c"} {
		laws.Set(NewLaw(Action{GUID: guid}))
	}
	laws.Set(NewLaw(Action{GUID: "a"}))

	assert.Equal(t, []string{"b", "a", "c"}, laws.Keys())
	assert.Equal(t, 3, laws.Len())

	raw, err := json.Marshal(laws)
	require.NoError(t, err)
	var decoded []struct {
		Action Action `json:"action"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "b", decoded[0].Action.GUID)
}

func TestRequiredWitnessCountNeverNegative(t *testing.T) {
	assert.Equal(t, 0, Rule{Confirmation: Confirmation{Witness: -3}}.RequiredWitnessCount())
	assert.Equal(t, 2, Rule{Confirmation: Confirmation{Witness: 2}}.RequiredWitnessCount())
}

func TestNewCase(t *testing.T) {
	created := time.Unix(1667808000, 0)

	t.Run("defaults nested sequences to empty", func(t *testing.T) {
		c, err := NewCase("0x1-1", created, "0xjur", StageFiled, nil, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, c.Rules)
		assert.NotNil(t, c.Roles)
		assert.NotNil(t, c.Posts)
		assert.Empty(t, c.Roles)
	})

	t.Run("requires identity fields", func(t *testing.T) {
		_, err := NewCase("", created, "0xjur", StageFiled, nil, nil, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewCase("0x1-1", time.Time{}, "0xjur", StageFiled, nil, nil, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewCase("0x1-1", created, "", StageFiled, nil, nil, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewCase("0x1-1", created, "0xjur", "", nil, nil, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := NewCase("0x1-1", created, "0xjur", StageFiled, nil, []Role{{Account: "0xa", Role: "judge"}}, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects posts without a known role", func(t *testing.T) {
		_, err := NewCase("0x1-1", created, "0xjur", StageFiled, nil, nil, []Post{{Role: "", URI: "ipfs://e"}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewCase("0x1-1", created, "0xjur", StageFiled, nil, nil, []Post{{Role: "judge", URI: "ipfs://e"}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		c, err := NewCase("0x1-1", created, "0xjur", StageFiled, nil, nil, []Post{{Role: RoleAdmin, URI: "ipfs://e"}})
		require.NoError(t, err)
		assert.Len(t, c.Posts, 1)
	})

	t.Run("accepts stages the indexer adds later", func(t *testing.T) {
		c, err := NewCase("0x1-1", created, "0xjur", Stage("appealed"), nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, Stage("appealed"), c.Stage)
	})
}
