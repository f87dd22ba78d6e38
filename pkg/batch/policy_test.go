package batch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/batch"
)

func TestPacingPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  batch.PacingPolicy
		wantErr bool
	}{
		{"default", batch.DefaultPolicy(), false},
		{"zero delays", batch.PacingPolicy{BatchSize: 1}, false},
		{"zero batch size", batch.PacingPolicy{BatchSize: 0}, true},
		{"negative batch size", batch.PacingPolicy{BatchSize: -3}, true},
		{"negative item delay", batch.PacingPolicy{BatchSize: 1, ItemDelay: -time.Second}, true},
		{"negative batch delay", batch.PacingPolicy{BatchSize: 1, BatchDelay: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.policy.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, batch.ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPacingPolicy_Chunks(t *testing.T) {
	t.Parallel()

	p := batch.PacingPolicy{BatchSize: 2}
	assert.Equal(t, []int{2, 2, 1}, p.Chunks(5))
	assert.Equal(t, []int{2}, p.Chunks(2))
	assert.Nil(t, p.Chunks(0))

	assert.Equal(t, []int{50, 50, 3}, batch.DefaultPolicy().Chunks(103))
}

func TestPacingPolicy_TotalPause(t *testing.T) {
	t.Parallel()

	p := batch.PacingPolicy{ItemDelay: time.Second, BatchDelay: 10 * time.Second, BatchSize: 2}
	assert.Equal(t, 25*time.Second, p.TotalPause(5))
	assert.Equal(t, 2*time.Second, p.TotalPause(2))
	assert.Zero(t, p.TotalPause(0))
}
