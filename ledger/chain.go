package ledger

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
)

// chain is one running-balance chain loaded inside a transaction, with the
// trade being edited at idx.
type chain struct {
	repo    journal.Repository
	session *journal.Session // nil for unsessioned trades
	trades  []journal.Trade
	idx     int
	before  float64 // balance before trades[idx]
	payout  float64
}

func (c *chain) head() journal.Trade {
	return c.trades[c.idx]
}

// rebalance rewrites trades[from:] in sequence order, each balance being
// the previous balance plus the trade's own return.
func (c *chain) rebalance(ctx context.Context, from int, prev float64) error {
	for i := from; i < len(c.trades); i++ {
		bal := prev + c.trades[i].ReturnAmount
		if bal != c.trades[i].CurrentBalance {
			t, err := c.repo.UpdateTrade(ctx, c.trades[i].ID, journal.TradePatch{CurrentBalance: &bal})
			if err != nil {
				return err
			}
			c.trades[i] = *t
		}
		prev = bal
	}
	return nil
}

// editChain locks the chain holding tradeID, loads it in a transaction,
// runs fn and refreshes the session totals before committing.
func (s *Service) editChain(ctx context.Context, userID, tradeID int64, fn func(c *chain) error) error {
	t, err := s.Trade(ctx, userID, tradeID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(chainKey(userID, t.SessionID))
	defer unlock()

	return s.store.InTx(ctx, func(repo journal.Repository) error {
		c, err := s.loadChain(ctx, repo, userID, tradeID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if c.session == nil {
			return nil
		}
		return refreshTotals(ctx, repo, c.session, c.trades)
	})
}

func (s *Service) loadChain(ctx context.Context, repo journal.Repository, userID, tradeID int64) (*chain, error) {
	t, err := repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("trade %d: %w", tradeID, common.ErrNotFound)
	}

	c := &chain{repo: repo, payout: s.payout}
	var anchor float64
	if t.SessionID != nil {
		if c.session, err = repo.GetSession(ctx, *t.SessionID); err != nil {
			return nil, err
		}
		anchor = c.session.InitialCapital
		c.payout = c.session.Payout()
	} else {
		st, err := repo.GetSettings(ctx, userID)
		if err != nil {
			return nil, err
		}
		anchor = st.InitialCapital
	}

	if c.trades, err = repo.ListChain(ctx, userID, t.SessionID); err != nil {
		return nil, err
	}
	c.idx = -1
	for i := range c.trades {
		if c.trades[i].ID == tradeID {
			c.idx = i
			break
		}
	}
	if c.idx < 0 {
		return nil, fmt.Errorf("trade %d missing from its chain: %w", tradeID, common.ErrDataIntegrity)
	}
	c.before = anchor
	if c.idx > 0 {
		c.before = c.trades[c.idx-1].CurrentBalance
	}
	return c, nil
}

// reprice recomputes the return of every won trade in sess at the
// session's current payout, then rebalances the whole chain.
func reprice(ctx context.Context, repo journal.Repository, sess *journal.Session) error {
	trades, err := repo.ListChain(ctx, sess.UserID, &sess.ID)
	if err != nil {
		return err
	}
	c := &chain{repo: repo, session: sess, trades: trades, payout: sess.Payout()}
	for i, t := range c.trades {
		if t.Result != risk.Win {
			continue
		}
		ret, err := risk.TradeReturn(t.TradeAmount, t.Result, c.payout)
		if err != nil {
			return err
		}
		if ret == t.ReturnAmount {
			continue
		}
		updated, err := repo.UpdateTrade(ctx, t.ID, journal.TradePatch{ReturnAmount: &ret})
		if err != nil {
			return err
		}
		c.trades[i] = *updated
	}
	if err := c.rebalance(ctx, 0, sess.InitialCapital); err != nil {
		return err
	}
	return refreshTotals(ctx, repo, sess, c.trades)
}

// refreshTotals writes the derived counters and capital figures of a
// session from its current chain.
func refreshTotals(ctx context.Context, repo journal.Repository, sess *journal.Session, trades []journal.Trade) error {
	recs := journal.Records(trades)
	total := len(trades)
	wins, losses := risk.Counts(recs)
	final := tail(trades, sess.InitialCapital)
	gain := risk.GainPercent(sess.InitialCapital, final)
	profit := winProfit(trades)

	_, err := repo.UpdateSession(ctx, sess.ID, journal.SessionPatch{
		TotalTrades:   &total,
		WinningTrades: &wins,
		LosingTrades:  &losses,
		CapitalFinal:  &final,
		AccountGain:   &gain,
		WinProfit:     &profit,
	})
	return err
}

func winProfit(trades []journal.Trade) float64 {
	var sum float64
	for _, t := range trades {
		if t.Result == risk.Win {
			sum += t.ReturnAmount
		}
	}
	return sum
}
