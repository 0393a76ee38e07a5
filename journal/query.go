package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/tradelog/risk"
)

const tradeColumns = `id, user_id, session_id, result, trade_amount, return_amount,
	current_balance, sequence_number, created_at, updated_at`

func scanTrade(row scanner) (*Trade, error) {
	var (
		t       Trade
		session sql.NullInt64
		result  sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.UserID, &session, &result, &t.TradeAmount, &t.ReturnAmount,
		&t.CurrentBalance, &t.SequenceNumber, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.SessionID = nullID(session)
	t.Result = risk.Result(result.String)
	return &t, nil
}

// GetTrade returns a single trade by ID.
func (q *Queries) GetTrade(ctx context.Context, id int64) (*Trade, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if err != nil {
		return nil, notFound(err, "trade", id)
	}
	return t, nil
}

// ListTrades returns the trades of one session in ascending sequence order,
// or, with a nil sessionID, every trade of the user in descending order.
func (q *Queries) ListTrades(ctx context.Context, userID int64, sessionID *int64) ([]Trade, error) {
	if sessionID != nil {
		return q.listTrades(ctx, `SELECT `+tradeColumns+` FROM trades
			WHERE user_id = ? AND session_id = ? ORDER BY sequence_number ASC, id ASC`,
			userID, *sessionID)
	}
	return q.listTrades(ctx, `SELECT `+tradeColumns+` FROM trades
		WHERE user_id = ? ORDER BY sequence_number DESC, id DESC`, userID)
}

// ListChain returns one running-balance chain in ascending sequence order:
// the trades of a session, or the user's unsessioned trades for a nil
// sessionID.
func (q *Queries) ListChain(ctx context.Context, userID int64, sessionID *int64) ([]Trade, error) {
	if sessionID != nil {
		return q.ListTrades(ctx, userID, sessionID)
	}
	return q.listTrades(ctx, `SELECT `+tradeColumns+` FROM trades
		WHERE user_id = ? AND session_id IS NULL ORDER BY sequence_number ASC, id ASC`, userID)
}

// NextSequenceNumber is one past the highest sequence number in the chain.
func (q *Queries) NextSequenceNumber(ctx context.Context, userID int64, sessionID *int64) (int, error) {
	var (
		max sql.NullInt64
		err error
	)
	if sessionID != nil {
		err = q.db.QueryRowContext(ctx,
			`SELECT MAX(sequence_number) FROM trades WHERE user_id = ? AND session_id = ?`,
			userID, *sessionID).Scan(&max)
	} else {
		err = q.db.QueryRowContext(ctx,
			`SELECT MAX(sequence_number) FROM trades WHERE user_id = ? AND session_id IS NULL`,
			userID).Scan(&max)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence number: %w", err)
	}
	return int(max.Int64) + 1, nil
}

func (q *Queries) listTrades(ctx context.Context, query string, args ...any) ([]Trade, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select trades: %w", err)
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
