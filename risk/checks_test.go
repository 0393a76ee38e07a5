package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateClean(t *testing.T) {
	t.Parallel()

	p := Policy{StopLossAlertPct: 20, DailyTargetPct: 2, SessionEndAlert: true, LowTradeAlert: true}
	d := Evaluate(p, Snapshot{InitialCapital: 18000, Balance: 18100, NextStake: 362})

	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.InDelta(t, 14400.0, d.StopLossLevel, 1e-9)
	assert.InDelta(t, 18360.0, d.TargetCapital, 1e-9)
}

func TestEvaluateAlerts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Policy
		s    Snapshot
		code string
	}{
		{
			name: "stop loss",
			p:    Policy{StopLossAlertPct: 20},
			s:    Snapshot{InitialCapital: 1000, Balance: 800, NextStake: 10},
			code: "STOP_LOSS_ALERT",
		},
		{
			name: "session stop loss override",
			p:    Policy{StopLossAlertPct: 20, StopLossOverride: 950},
			s:    Snapshot{InitialCapital: 1000, Balance: 940, NextStake: 10},
			code: "STOP_LOSS_ALERT",
		},
		{
			name: "daily target",
			p:    Policy{DailyTargetPct: 2, SessionEndAlert: true},
			s:    Snapshot{InitialCapital: 1000, Balance: 1020, NextStake: 20},
			code: "DAILY_TARGET_REACHED",
		},
		{
			name: "low stake",
			p:    Policy{LowTradeAlert: true},
			s:    Snapshot{InitialCapital: 1000, Balance: 1000, NextStake: 5},
			code: "LOW_STAKE",
		},
		{
			name: "over bet",
			p:    Policy{},
			s:    Snapshot{InitialCapital: 1000, Balance: 100, NextStake: 160},
			code: "OVER_BET",
		},
		{
			name: "max loss limit default",
			p:    Policy{},
			s:    Snapshot{InitialCapital: 1000, Balance: 1000, Losses: 16},
			code: "MAX_LOSS_LIMIT",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Evaluate(tt.p, tt.s)
			assert.False(t, d.Allowed)
			assert.True(t, d.Has(tt.code), "%+v", d.Violations)
		})
	}
}

func TestEvaluateTargetNeedsSessionEndAlert(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{DailyTargetPct: 2}, Snapshot{InitialCapital: 1000, Balance: 1500, NextStake: 30})
	assert.False(t, d.Has("DAILY_TARGET_REACHED"))
	assert.True(t, d.Allowed)
}
