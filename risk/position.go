package risk

import (
	"math"

	"github.com/rustyeddy/tradelog/internal/common"
)

// Position is the result of risk-based position sizing.
type Position struct {
	RiskAmount   float64 `json:"risk_amount"`
	PositionSize float64 `json:"position_size"`
	MaxQuantity  float64 `json:"max_quantity"`
}

// PositionSize sizes a position so that hitting the stop loses
// riskPercent of the balance.
func PositionSize(balance, riskPercent, entry, stop float64) (Position, error) {
	riskAmt := balance * (riskPercent / 100)
	perUnit := math.Abs(entry - stop)
	if perUnit == 0 {
		return Position{}, common.ErrDivisionByZero
	}

	qty := math.Floor(riskAmt / perUnit)
	return Position{
		RiskAmount:   riskAmt,
		PositionSize: qty * entry,
		MaxQuantity:  qty,
	}, nil
}

func ProfitLoss(entry, exit, quantity float64, dir Direction) (float64, error) {
	switch dir {
	case Long:
		return (exit - entry) * quantity, nil
	case Short:
		return (entry - exit) * quantity, nil
	default:
		return 0, common.Invalid("direction %q", string(dir))
	}
}

// RR is the reward-to-risk ratio of a planned trade, zero when the stop
// equals the entry.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}
