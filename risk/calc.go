package risk

import (
	"math"

	"github.com/rustyeddy/tradelog/internal/common"
)

// DefaultPayoutPercent is used when a session has no payout configured.
const DefaultPayoutPercent = 92.0

// NextTrade holds the inputs for sizing the next stake. A zero
// PreviousAmount or empty PreviousResult means there is no previous trade.
type NextTrade struct {
	CurrentBalance     float64
	PreviousAmount     float64
	PreviousResult     Result
	RiskPercent        float64
	RecoveryMultiplier float64

	// PayoutPercent is accepted for payout-aware sizing but not used yet.
	PayoutPercent float64
}

// NextTradeAmount returns the stake for the next trade. After a loss the
// previous stake is scaled by the recovery multiplier; otherwise the stake
// is RiskPercent of the current balance. The result is not clamped to the
// balance.
func NextTradeAmount(in NextTrade) float64 {
	if in.PreviousResult == Loss && in.PreviousAmount != 0 {
		return in.PreviousAmount * in.RecoveryMultiplier
	}
	return in.CurrentBalance * (in.RiskPercent / 100)
}

// TradeReturn is the signed P/L of a settled stake.
func TradeReturn(amount float64, result Result, payoutPercent float64) (float64, error) {
	switch result {
	case Win:
		return amount * (payoutPercent / 100), nil
	case Loss:
		return -amount, nil
	default:
		return 0, common.Invalid("trade result %q", string(result))
	}
}

// SessionsRequired is how many full-risk sessions reach the daily target.
func SessionsRequired(targetPercent, riskPercent float64) (int, error) {
	if riskPercent <= 0 {
		return 0, common.Invalid("risk percent %.2f must be positive", riskPercent)
	}
	return int(math.Ceil(targetPercent / riskPercent)), nil
}

// TargetCapital is the balance at which the daily profit target is met.
func TargetCapital(initialCapital, targetPercent float64) float64 {
	return initialCapital + initialCapital*(targetPercent/100)
}

// StopLossLevel is the balance at or below which the stop-loss alert fires.
func StopLossLevel(initialCapital, alertPercent float64) float64 {
	return initialCapital * (1 - alertPercent/100)
}

// GainPercent is the change from initial to current as a percentage of
// initial. It is zero when initial is not positive.
func GainPercent(initial, current float64) float64 {
	if initial <= 0 {
		return 0
	}
	return (current - initial) / initial * 100
}
