package risk

import (
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTradeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   NextTrade
		want float64
	}{
		{
			name: "recovery after loss",
			in:   NextTrade{CurrentBalance: 1000, PreviousAmount: 50, PreviousResult: Loss, RiskPercent: 2, RecoveryMultiplier: 2, PayoutPercent: 92},
			want: 100,
		},
		{
			name: "first trade",
			in:   NextTrade{CurrentBalance: 1000, RiskPercent: 2, RecoveryMultiplier: 2, PayoutPercent: 92},
			want: 20,
		},
		{
			name: "after win uses risk percent",
			in:   NextTrade{CurrentBalance: 1200, PreviousAmount: 50, PreviousResult: Win, RiskPercent: 2, RecoveryMultiplier: 2},
			want: 24,
		},
		{
			name: "loss with zero previous amount",
			in:   NextTrade{CurrentBalance: 500, PreviousResult: Loss, RiskPercent: 10, RecoveryMultiplier: 3},
			want: 50,
		},
		{
			name: "pending previous trade",
			in:   NextTrade{CurrentBalance: 500, PreviousAmount: 40, RiskPercent: 10, RecoveryMultiplier: 3},
			want: 50,
		},
		{
			name: "not clamped to balance",
			in:   NextTrade{CurrentBalance: 100, PreviousAmount: 80, PreviousResult: Loss, RiskPercent: 2, RecoveryMultiplier: 2},
			want: 160,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, NextTradeAmount(tt.in), 1e-9)
		})
	}
}

func TestNextTradeAmountIgnoresPayout(t *testing.T) {
	t.Parallel()

	a := NextTrade{CurrentBalance: 1000, RiskPercent: 2, PayoutPercent: 50}
	b := a
	b.PayoutPercent = 95
	assert.Equal(t, NextTradeAmount(a), NextTradeAmount(b))
}

func TestTradeReturn(t *testing.T) {
	t.Parallel()

	got, err := TradeReturn(100, Win, 92)
	require.NoError(t, err)
	assert.InDelta(t, 92.0, got, 1e-9)

	got, err = TradeReturn(100, Loss, 92)
	require.NoError(t, err)
	assert.InDelta(t, -100.0, got, 1e-9)

	_, err = TradeReturn(100, Result("draw"), 92)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = TradeReturn(100, Pending, 92)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	r, err := ParseResult("win")
	require.NoError(t, err)
	assert.Equal(t, Win, r)

	r, err = ParseResult("loss")
	require.NoError(t, err)
	assert.Equal(t, Loss, r)

	for _, bad := range []string{"", "WIN", "Loss", "tie"} {
		_, err := ParseResult(bad)
		assert.ErrorIs(t, err, common.ErrInvalidArgument, bad)
	}
}

func TestSessionsRequired(t *testing.T) {
	t.Parallel()

	n, err := SessionsRequired(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = SessionsRequired(5, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = SessionsRequired(5, 0)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestLevels(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 18360.0, TargetCapital(18000, 2), 1e-9)
	assert.InDelta(t, 14400.0, StopLossLevel(18000, 20), 1e-9)
	assert.InDelta(t, 10.0, GainPercent(1000, 1100), 1e-9)
	assert.Equal(t, 0.0, GainPercent(0, 1100))
}
