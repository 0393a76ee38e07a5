package ledger

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
)

// AppendTrade records a pending stake at the end of a session's chain. The
// stake is taken from the running balance until the trade settles.
func (s *Service) AppendTrade(ctx context.Context, userID, sessionID int64, amount float64) (*journal.Trade, error) {
	if err := common.Positive("trade amount", amount); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(chainKey(userID, &sessionID))
	defer unlock()

	var out *journal.Trade
	err := s.store.InTx(ctx, func(repo journal.Repository) error {
		sess, err := ownedSession(ctx, repo, userID, sessionID)
		if err != nil {
			return err
		}
		trades, err := repo.ListChain(ctx, userID, &sessionID)
		if err != nil {
			return err
		}
		seq, err := repo.NextSequenceNumber(ctx, userID, &sessionID)
		if err != nil {
			return err
		}

		out, err = repo.CreateTrade(ctx, &journal.Trade{
			UserID:         userID,
			SessionID:      &sessionID,
			TradeAmount:    amount,
			CurrentBalance: tail(trades, sess.InitialCapital) - amount,
			SequenceNumber: seq,
		})
		if err != nil {
			return err
		}
		return refreshTotals(ctx, repo, sess, append(trades, *out))
	})
	if err != nil {
		return nil, fmt.Errorf("append trade: %w", err)
	}

	s.log.Debug(ctx, "trade appended", "session_id", sessionID, "seq", out.SequenceNumber,
		"amount", amount)
	return out, nil
}

// SuggestTradeAmount sizes the next stake of a session from the user's
// risk settings and the session's last trade.
func (s *Service) SuggestTradeAmount(ctx context.Context, userID, sessionID int64) (float64, error) {
	sess, err := ownedSession(ctx, s.store, userID, sessionID)
	if err != nil {
		return 0, err
	}
	st, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return 0, err
	}
	trades, err := s.store.ListChain(ctx, userID, &sessionID)
	if err != nil {
		return 0, err
	}
	return nextStake(sess, st, trades), nil
}

func nextStake(sess *journal.Session, st *journal.UserSettings, trades []journal.Trade) float64 {
	in := risk.NextTrade{
		CurrentBalance:     tail(trades, sess.InitialCapital),
		RiskPercent:        st.RiskPercent,
		RecoveryMultiplier: st.RecoveryMultiplier,
		PayoutPercent:      sess.Payout(),
	}
	if n := len(trades); n > 0 {
		in.PreviousAmount = trades[n-1].TradeAmount
		in.PreviousResult = trades[n-1].Result
	}
	return risk.NextTradeAmount(in)
}

// SettleTrade records the outcome of a trade and recomputes the balance of
// every later trade in its chain. Settling an already settled trade runs
// the same cascade.
func (s *Service) SettleTrade(ctx context.Context, userID, tradeID int64, result risk.Result) (*journal.Trade, error) {
	if !result.Settled() {
		return nil, common.Invalid("trade result %q", string(result))
	}

	var out *journal.Trade
	err := s.editChain(ctx, userID, tradeID, func(c *chain) error {
		ret, err := risk.TradeReturn(c.head().TradeAmount, result, c.payout)
		if err != nil {
			return err
		}
		bal := c.before + ret
		out, err = c.repo.UpdateTrade(ctx, tradeID, journal.TradePatch{
			Result:         &result,
			ReturnAmount:   &ret,
			CurrentBalance: &bal,
		})
		if err != nil {
			return err
		}
		c.trades[c.idx] = *out
		return c.rebalance(ctx, c.idx+1, bal)
	})
	if err != nil {
		return nil, fmt.Errorf("settle trade %d: %w", tradeID, err)
	}

	s.log.Info(ctx, "trade settled", "trade_id", tradeID, "result", string(result),
		"return", out.ReturnAmount, "balance", out.CurrentBalance)
	return out, nil
}

// AdjustStake corrects the amount of a trade. A pending trade takes the
// new stake from the balance before it; a settled one gets its return
// recomputed. Later balances cascade as in SettleTrade.
func (s *Service) AdjustStake(ctx context.Context, userID, tradeID int64, amount float64) (*journal.Trade, error) {
	if err := common.Positive("trade amount", amount); err != nil {
		return nil, err
	}

	var out *journal.Trade
	err := s.editChain(ctx, userID, tradeID, func(c *chain) error {
		t := c.head()
		var ret, bal float64
		if t.Result.Settled() {
			var err error
			if ret, err = risk.TradeReturn(amount, t.Result, c.payout); err != nil {
				return err
			}
			bal = c.before + ret
		} else {
			bal = c.before - amount
		}

		var err error
		out, err = c.repo.UpdateTrade(ctx, tradeID, journal.TradePatch{
			TradeAmount:    &amount,
			ReturnAmount:   &ret,
			CurrentBalance: &bal,
		})
		if err != nil {
			return err
		}
		c.trades[c.idx] = *out
		return c.rebalance(ctx, c.idx+1, bal)
	})
	if err != nil {
		return nil, fmt.Errorf("adjust trade %d: %w", tradeID, err)
	}
	return out, nil
}

// DeleteTrade removes one trade and rebalances the trades after it.
func (s *Service) DeleteTrade(ctx context.Context, userID, tradeID int64) error {
	err := s.editChain(ctx, userID, tradeID, func(c *chain) error {
		ok, err := c.repo.DeleteTrade(ctx, tradeID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("trade %d: %w", tradeID, common.ErrNotFound)
		}
		c.trades = append(c.trades[:c.idx], c.trades[c.idx+1:]...)
		return c.rebalance(ctx, c.idx, c.before)
	})
	if err != nil {
		return fmt.Errorf("delete trade %d: %w", tradeID, err)
	}

	s.log.Info(ctx, "trade deleted", "trade_id", tradeID)
	return nil
}

// ClearTrades deletes every trade of the user, or of one session, and
// reports whether anything was deleted. There is no undo.
func (s *Service) ClearTrades(ctx context.Context, userID int64, sessionID *int64) (bool, error) {
	key := userKey(userID)
	if sessionID != nil {
		key = chainKey(userID, sessionID)
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	var deleted bool
	err := s.store.InTx(ctx, func(repo journal.Repository) error {
		var sessions []journal.Session
		if sessionID != nil {
			sess, err := ownedSession(ctx, repo, userID, *sessionID)
			if err != nil {
				return err
			}
			sessions = append(sessions, *sess)
		} else {
			var err error
			if sessions, err = repo.ListSessions(ctx, userID); err != nil {
				return err
			}
		}

		var err error
		if deleted, err = repo.DeleteTrades(ctx, userID, sessionID); err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		for i := range sessions {
			if err := refreshTotals(ctx, repo, &sessions[i], nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("clear trades: %w", err)
	}

	s.log.Info(ctx, "trades cleared", "user_id", userID, "deleted", deleted)
	return deleted, nil
}

// Trades lists the user's trades: ascending within one session, or
// newest first across all of them.
func (s *Service) Trades(ctx context.Context, userID int64, sessionID *int64) ([]journal.Trade, error) {
	if sessionID != nil {
		if _, err := ownedSession(ctx, s.store, userID, *sessionID); err != nil {
			return nil, err
		}
	}
	return s.store.ListTrades(ctx, userID, sessionID)
}

func (s *Service) Trade(ctx context.Context, userID, tradeID int64) (*journal.Trade, error) {
	t, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("trade %d: %w", tradeID, common.ErrNotFound)
	}
	return t, nil
}

// tail is the balance after the last trade, or initial when there is none.
func tail(trades []journal.Trade, initial float64) float64 {
	if n := len(trades); n > 0 {
		return trades[n-1].CurrentBalance
	}
	return initial
}
