package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
)

// Summary is the computed state of one session.
type Summary struct {
	Session          *journal.Session `json:"session"`
	TotalTrades      int              `json:"total_trades"`
	Wins             int              `json:"wins"`
	Losses           int              `json:"losses"`
	Pending          int              `json:"pending"`
	WinRate          float64          `json:"win_rate"`
	Balance          float64          `json:"balance"`
	NetProfitLoss    float64          `json:"net_profit_loss"`
	GainPercent      float64          `json:"gain_percent"`
	WinProfit        float64          `json:"win_profit"`
	Payout           float64          `json:"payout_percent"`
	NextStake        float64          `json:"next_stake"`
	SessionsRequired int              `json:"sessions_required"`
	Streak           risk.Streak      `json:"streak"`
	Alerts           risk.Decision    `json:"alerts"`
}

// Summary computes session statistics and evaluates the user's alert
// settings against them.
func (s *Service) Summary(ctx context.Context, userID, sessionID int64) (*Summary, error) {
	sess, err := ownedSession(ctx, s.store, userID, sessionID)
	if err != nil {
		return nil, err
	}
	st, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	trades, err := s.store.ListChain(ctx, userID, &sessionID)
	if err != nil {
		return nil, err
	}

	recs := journal.Records(trades)
	wins, losses := risk.Counts(recs)
	balance := tail(trades, sess.InitialCapital)
	required, err := risk.SessionsRequired(st.DailyProfitTargetPercent, st.RiskPercent)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	sum := &Summary{
		Session:          sess,
		TotalTrades:      len(trades),
		Wins:             wins,
		Losses:           losses,
		Pending:          len(trades) - wins - losses,
		WinRate:          risk.WinRate(recs),
		Balance:          balance,
		NetProfitLoss:    risk.TotalProfitLoss(recs),
		GainPercent:      risk.GainPercent(sess.InitialCapital, balance),
		WinProfit:        winProfit(trades),
		Payout:           sess.Payout(),
		NextStake:        nextStake(sess, st, trades),
		SessionsRequired: required,
		Streak:           risk.CurrentStreak(recs),
	}
	sum.Alerts = risk.Evaluate(policyFor(sess, st), risk.Snapshot{
		InitialCapital: sess.InitialCapital,
		Balance:        balance,
		NextStake:      sum.NextStake,
		Losses:         losses,
	})
	return sum, nil
}

// policyFor merges the user's alert settings with session overrides.
func policyFor(sess *journal.Session, st *journal.UserSettings) risk.Policy {
	p := risk.Policy{
		StopLossAlertPct: st.StopLossAlertPercent,
		DailyTargetPct:   st.DailyProfitTargetPercent,
		SessionEndAlert:  st.SessionEndAlert,
		LowTradeAlert:    st.LowTradeAlert,
	}
	if sess.StopLossPercent != nil {
		p.StopLossAlertPct = *sess.StopLossPercent
	}
	if sess.StopLoss != nil {
		p.StopLossOverride = *sess.StopLoss
	}
	if sess.MaxLossLimit != nil {
		p.MaxLossLimit = *sess.MaxLossLimit
	}
	return p
}

// Export writes the user's trades, or one session's, as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, userID int64, sessionID *int64) error {
	trades, err := s.Trades(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := journal.WriteCSV(w, trades); err != nil {
		return fmt.Errorf("export trades: %w", err)
	}
	return nil
}
