package journal

import (
	"strings"
	"testing"

	"github.com/rustyeddy/tradelog/risk"
	"github.com/stretchr/testify/assert"
)

func TestFormatSessionOrg(t *testing.T) {
	t.Parallel()

	final := 998.4
	s := Session{ID: 7, SessionNumber: 2, Date: "2026-10-18", InitialCapital: 1000, CapitalFinal: &final, Currency: "USD", TotalTrades: 2, WinningTrades: 1, LosingTrades: 1}
	trades := []Trade{
		{SequenceNumber: 2, Result: risk.Loss, TradeAmount: 20, ReturnAmount: -20, CurrentBalance: 998.4},
		{SequenceNumber: 1, Result: risk.Win, TradeAmount: 20, ReturnAmount: 18.4, CurrentBalance: 1018.4},
		{SequenceNumber: 3, TradeAmount: 40, CurrentBalance: 958.4},
	}

	out := FormatSessionOrg(s, trades)

	assert.True(t, strings.HasPrefix(out, "** Session 2 (2026-10-18)\n"))
	assert.Contains(t, out, ":SESSION_ID: 7\n")
	assert.Contains(t, out, ":CAPITAL_FINAL: 998.40\n")
	assert.Contains(t, out, ":ACCOUNT_GAIN: -\n")
	assert.Contains(t, out, ":PAYOUT: 92.00\n")
	assert.Contains(t, out, "| 1 | WIN | 20.00 | 18.40 | 1018.40 |\n| 2 | LOSS | 20.00 | -20.00 | 998.40 |\n| 3 | PENDING | 40.00 | 0.00 | 958.40 |\n")
	assert.True(t, strings.HasSuffix(out, "*** Review\n- \n"))
}
