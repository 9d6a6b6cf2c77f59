package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	fail      bool
	wantOpen  bool
	wantShift bool
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the threshold failure only",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{fail: true, wantOpen: true, wantShift: true},
				{fail: true, wantOpen: true},
			},
		},
		{
			name: "success clears the failure streak",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{fail: true},
				{fail: false},
				{fail: true},
				{fail: true, wantOpen: true, wantShift: true},
			},
		},
		{
			name: "closes after consecutive successes",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true, wantShift: true},
				{fail: false, wantOpen: true},
				{fail: false, wantOpen: false, wantShift: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("subgraph", tt.opts...)
			for i, s := range tt.steps {
				var shifted bool
				if s.fail {
					_, change := b.RecordFailure()
					shifted = change.Opened
				} else {
					_, change := b.RecordSuccess()
					shifted = change.Closed
				}
				assert.Equal(t, s.wantShift, shifted, "step %d transition", i)
				assert.Equal(t, s.wantOpen, b.IsOpen(), "step %d state", i)
			}
		})
	}
}

func TestBreakerProbesOncePerCooldown(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b := New("subgraph",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)
	require.True(t, b.Allow())
	b.RecordFailure()
	require.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow(), "a failed probe earns another after the next cooldown")

	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerReset(t *testing.T) {
	b := New("subgraph", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "subgraph", b.Name())
}
