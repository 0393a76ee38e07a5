package journal

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradelog/internal/common"
)

func (q *Queries) CreateTrade(ctx context.Context, t *Trade) (*Trade, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO trades
		(user_id, session_id, result, trade_amount, return_amount, current_balance, sequence_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, idValue(t.SessionID), resultValue(t.Result), t.TradeAmount,
		t.ReturnAmount, t.CurrentBalance, t.SequenceNumber,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("trade sequence %d: %w", t.SequenceNumber, common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get trade id: %w", err)
	}
	return q.GetTrade(ctx, id)
}

func (q *Queries) UpdateTrade(ctx context.Context, id int64, p TradePatch) (*Trade, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	as := p.assignments()
	if len(as) == 0 {
		return nil, ErrNoFields
	}

	set, args := as.set()
	args = append(args, id)
	res, err := q.db.ExecContext(ctx, `UPDATE trades SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	ok, err := rowsChanged(res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("trade %d: %w", id, common.ErrNotFound)
	}
	return q.GetTrade(ctx, id)
}

// DeleteTrade reports whether a row was removed.
func (q *Queries) DeleteTrade(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete trade: %w", err)
	}
	return rowsChanged(res)
}

// DeleteTrades removes every trade of the user, or only those of one
// session, and reports whether anything was removed.
func (q *Queries) DeleteTrades(ctx context.Context, userID int64, sessionID *int64) (bool, error) {
	query := `DELETE FROM trades WHERE user_id = ?`
	args := []any{userID}
	if sessionID != nil {
		query += ` AND session_id = ?`
		args = append(args, *sessionID)
	}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete trades: %w", err)
	}
	return rowsChanged(res)
}
