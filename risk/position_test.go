package risk

import (
	"math"
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	got, err := PositionSize(10000, 2, 100, 95)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 40.0, got.MaxQuantity, 1e-9)
	assert.InDelta(t, 4000.0, got.PositionSize, 1e-9)
}

func TestPositionSizeStopAboveEntry(t *testing.T) {
	t.Parallel()

	got, err := PositionSize(5000, 1, 20, 23)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 16.0, got.MaxQuantity, 1e-9)
	assert.InDelta(t, 320.0, got.PositionSize, 1e-9)
}

func TestPositionSizeDivisionByZero(t *testing.T) {
	t.Parallel()

	got, err := PositionSize(10000, 2, 100, 100)
	assert.ErrorIs(t, err, common.ErrDivisionByZero)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.False(t, math.IsInf(got.MaxQuantity, 0))
	assert.Equal(t, Position{}, got)
}

func TestProfitLoss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry float64
		exit  float64
		qty   float64
		dir   Direction
		want  float64
	}{
		{"long gain", 100, 110, 5, Long, 50},
		{"long loss", 100, 90, 5, Long, -50},
		{"short gain", 100, 90, 5, Short, 50},
		{"short loss", 100, 110, 5, Short, -50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ProfitLoss(tt.entry, tt.exit, tt.qty, tt.dir)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := ProfitLoss(1, 2, 3, Direction("sideways"))
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(100, 95, 110), 1e-9)
	assert.Equal(t, 0.0, RR(100, 100, 110))
}
