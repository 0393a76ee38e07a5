package journal

import (
	"sort"
	"strings"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/risk"
)

// ErrNoFields is returned for a patch with nothing to update.
var ErrNoFields = common.Invalid("no valid fields provided for update")

type assignment struct {
	col string
	val any
}

type assignments []assignment

func (as *assignments) add(col string, val any) {
	*as = append(*as, assignment{col: col, val: val})
}

// set renders "a = ?, b = ?, updated_at = CURRENT_TIMESTAMP" and its args.
func (as assignments) set() (string, []any) {
	cols := make([]string, 0, len(as)+1)
	args := make([]any, 0, len(as))
	for _, a := range as {
		cols = append(cols, a.col+" = ?")
		args = append(args, a.val)
	}
	cols = append(cols, "updated_at = CURRENT_TIMESTAMP")
	return strings.Join(cols, ", "), args
}

// SettingsPatch is a partial update of UserSettings. Nil fields are left
// untouched.
type SettingsPatch struct {
	InitialCapital           *float64 `json:"initial_capital,omitempty" yaml:"initial_capital,omitempty"`
	RiskPercent              *float64 `json:"risk_percent,omitempty" yaml:"risk_percent,omitempty"`
	RecoveryMultiplier       *float64 `json:"recovery_multiplier,omitempty" yaml:"recovery_multiplier,omitempty"`
	DailyProfitTargetPercent *float64 `json:"daily_profit_target_percent,omitempty" yaml:"daily_profit_target_percent,omitempty"`
	DailyGoalFormat          *string  `json:"daily_goal_format,omitempty" yaml:"daily_goal_format,omitempty"`
	StopLossAlertPercent     *float64 `json:"stop_loss_alert_percent,omitempty" yaml:"stop_loss_alert_percent,omitempty"`
	SessionEndAlert          *bool    `json:"session_end_alert,omitempty" yaml:"session_end_alert,omitempty"`
	LowTradeAlert            *bool    `json:"low_trade_alert,omitempty" yaml:"low_trade_alert,omitempty"`
	AutoCopyBalance          *bool    `json:"auto_copy_balance,omitempty" yaml:"auto_copy_balance,omitempty"`
	AutoLogSession           *bool    `json:"auto_log_session,omitempty" yaml:"auto_log_session,omitempty"`
	AutoCountSession         *bool    `json:"auto_count_session,omitempty" yaml:"auto_count_session,omitempty"`
	Currency                 *string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

func (p SettingsPatch) Validate() error {
	err := finite(map[string]*float64{
		"initial_capital":             p.InitialCapital,
		"risk_percent":                p.RiskPercent,
		"recovery_multiplier":         p.RecoveryMultiplier,
		"daily_profit_target_percent": p.DailyProfitTargetPercent,
		"stop_loss_alert_percent":     p.StopLossAlertPercent,
	})
	if err != nil {
		return err
	}
	if p.InitialCapital != nil && *p.InitialCapital <= 0 {
		return common.Invalid("initial_capital must be positive")
	}
	if p.RiskPercent != nil && (*p.RiskPercent <= 0 || *p.RiskPercent > 100) {
		return common.Invalid("risk_percent must be in (0, 100]")
	}
	if p.RecoveryMultiplier != nil && *p.RecoveryMultiplier <= 0 {
		return common.Invalid("recovery_multiplier must be positive")
	}
	if p.DailyProfitTargetPercent != nil && *p.DailyProfitTargetPercent < 0 {
		return common.Invalid("daily_profit_target_percent must not be negative")
	}
	if p.DailyGoalFormat != nil && *p.DailyGoalFormat != GoalPercent && *p.DailyGoalFormat != GoalCurrency {
		return common.Invalid("daily_goal_format %q", *p.DailyGoalFormat)
	}
	if p.StopLossAlertPercent != nil && (*p.StopLossAlertPercent < 0 || *p.StopLossAlertPercent > 100) {
		return common.Invalid("stop_loss_alert_percent must be in [0, 100]")
	}
	if p.Currency != nil && strings.TrimSpace(*p.Currency) == "" {
		return common.Invalid("currency must not be empty")
	}
	return nil
}

func (p SettingsPatch) assignments() assignments {
	var as assignments
	if p.InitialCapital != nil {
		as.add("initial_capital", *p.InitialCapital)
	}
	if p.RiskPercent != nil {
		as.add("risk_percent", *p.RiskPercent)
	}
	if p.RecoveryMultiplier != nil {
		as.add("recovery_multiplier", *p.RecoveryMultiplier)
	}
	if p.DailyProfitTargetPercent != nil {
		as.add("daily_profit_target_percent", *p.DailyProfitTargetPercent)
	}
	if p.DailyGoalFormat != nil {
		as.add("daily_goal_format", *p.DailyGoalFormat)
	}
	if p.StopLossAlertPercent != nil {
		as.add("stop_loss_alert_percent", *p.StopLossAlertPercent)
	}
	if p.SessionEndAlert != nil {
		as.add("session_end_alert", boolInt(*p.SessionEndAlert))
	}
	if p.LowTradeAlert != nil {
		as.add("low_trade_alert", boolInt(*p.LowTradeAlert))
	}
	if p.AutoCopyBalance != nil {
		as.add("auto_copy_balance", boolInt(*p.AutoCopyBalance))
	}
	if p.AutoLogSession != nil {
		as.add("auto_log_session", boolInt(*p.AutoLogSession))
	}
	if p.AutoCountSession != nil {
		as.add("auto_count_session", boolInt(*p.AutoCountSession))
	}
	if p.Currency != nil {
		as.add("currency", strings.ToUpper(strings.TrimSpace(*p.Currency)))
	}
	return as
}

// SessionPatch is a partial update of a Session.
type SessionPatch struct {
	CapitalFinal    *float64 `json:"capital_final,omitempty"`
	AccountGain     *float64 `json:"account_gain,omitempty"`
	WinProfit       *float64 `json:"win_profit,omitempty"`
	StopLoss        *float64 `json:"stop_loss,omitempty"`
	StopLossPercent *float64 `json:"stop_loss_percent,omitempty"`
	MaxLossLimit    *int     `json:"max_loss_limit,omitempty"`
	TotalTrades     *int     `json:"total_trades,omitempty"`
	WinningTrades   *int     `json:"winning_trades,omitempty"`
	LosingTrades    *int     `json:"losing_trades,omitempty"`
	PayoutPercent   *float64 `json:"payout_percent,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

func (p SessionPatch) Validate() error {
	err := finite(map[string]*float64{
		"capital_final":     p.CapitalFinal,
		"account_gain":      p.AccountGain,
		"win_profit":        p.WinProfit,
		"stop_loss":         p.StopLoss,
		"stop_loss_percent": p.StopLossPercent,
		"payout_percent":    p.PayoutPercent,
	})
	if err != nil {
		return err
	}
	if p.PayoutPercent != nil && *p.PayoutPercent <= 0 {
		return common.Invalid("payout_percent must be positive")
	}
	if p.StopLossPercent != nil && (*p.StopLossPercent < 0 || *p.StopLossPercent > 100) {
		return common.Invalid("stop_loss_percent must be in [0, 100]")
	}
	for name, v := range map[string]*int{
		"max_loss_limit": p.MaxLossLimit,
		"total_trades":   p.TotalTrades,
		"winning_trades": p.WinningTrades,
		"losing_trades":  p.LosingTrades,
	} {
		if v != nil && *v < 0 {
			return common.Invalid("%s must not be negative", name)
		}
	}
	return nil
}

func (p SessionPatch) assignments() assignments {
	var as assignments
	if p.CapitalFinal != nil {
		as.add("capital_final", *p.CapitalFinal)
	}
	if p.AccountGain != nil {
		as.add("account_gain", *p.AccountGain)
	}
	if p.WinProfit != nil {
		as.add("win_profit", *p.WinProfit)
	}
	if p.StopLoss != nil {
		as.add("stop_loss", *p.StopLoss)
	}
	if p.StopLossPercent != nil {
		as.add("stop_loss_percent", *p.StopLossPercent)
	}
	if p.MaxLossLimit != nil {
		as.add("max_loss_limit", *p.MaxLossLimit)
	}
	if p.TotalTrades != nil {
		as.add("total_trades", *p.TotalTrades)
	}
	if p.WinningTrades != nil {
		as.add("winning_trades", *p.WinningTrades)
	}
	if p.LosingTrades != nil {
		as.add("losing_trades", *p.LosingTrades)
	}
	if p.PayoutPercent != nil {
		as.add("payout_percent", *p.PayoutPercent)
	}
	if p.IsActive != nil {
		as.add("is_active", boolInt(*p.IsActive))
	}
	return as
}

// TradePatch is a partial update of a Trade. It writes the columns as
// given; keeping the balance chain consistent is the ledger's job.
type TradePatch struct {
	Result         *risk.Result `json:"result,omitempty"`
	TradeAmount    *float64     `json:"trade_amount,omitempty"`
	ReturnAmount   *float64     `json:"return_amount,omitempty"`
	CurrentBalance *float64     `json:"current_balance,omitempty"`
}

func (p TradePatch) Validate() error {
	err := finite(map[string]*float64{
		"trade_amount":    p.TradeAmount,
		"return_amount":   p.ReturnAmount,
		"current_balance": p.CurrentBalance,
	})
	if err != nil {
		return err
	}
	if p.Result != nil && !p.Result.Settled() {
		return common.Invalid("trade result %q", string(*p.Result))
	}
	if p.TradeAmount != nil && *p.TradeAmount <= 0 {
		return common.Invalid("trade_amount must be positive")
	}
	return nil
}

func (p TradePatch) assignments() assignments {
	var as assignments
	if p.Result != nil {
		as.add("result", resultValue(*p.Result))
	}
	if p.TradeAmount != nil {
		as.add("trade_amount", *p.TradeAmount)
	}
	if p.ReturnAmount != nil {
		as.add("return_amount", *p.ReturnAmount)
	}
	if p.CurrentBalance != nil {
		as.add("current_balance", *p.CurrentBalance)
	}
	return as
}

// finite checks every set field, in name order so the error is stable.
func finite(fields map[string]*float64) error {
	names := make([]string, 0, len(fields))
	for name, v := range fields {
		if v != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := common.Finite(name, *fields[name]); err != nil {
			return err
		}
	}
	return nil
}
