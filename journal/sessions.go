package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/tradelog/internal/common"
)

const sessionColumns = `id, user_id, session_number, date, initial_capital,
	capital_final, account_gain, win_profit, stop_loss, stop_loss_percent,
	max_loss_limit, total_trades, winning_trades, losing_trades,
	payout_percent, currency, is_active, created_at, updated_at`

func scanSession(row scanner) (*Session, error) {
	var (
		s                                   Session
		capFinal, gain, winProfit, stopLoss sql.NullFloat64
		stopLossPct, payout                 sql.NullFloat64
		maxLoss                             sql.NullInt64
		active                              int64
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.SessionNumber, &s.Date, &s.InitialCapital,
		&capFinal, &gain, &winProfit, &stopLoss, &stopLossPct,
		&maxLoss, &s.TotalTrades, &s.WinningTrades, &s.LosingTrades,
		&payout, &s.Currency, &active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CapitalFinal = nullFloat(capFinal)
	s.AccountGain = nullFloat(gain)
	s.WinProfit = nullFloat(winProfit)
	s.StopLoss = nullFloat(stopLoss)
	s.StopLossPercent = nullFloat(stopLossPct)
	s.MaxLossLimit = nullInt(maxLoss)
	s.PayoutPercent = nullFloat(payout)
	s.IsActive = intBool(active)
	return &s, nil
}

func (q *Queries) listSessions(ctx context.Context, query string, args ...any) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NextSessionNumber is max(session_number)+1 for the user, or 1.
func (q *Queries) NextSessionNumber(ctx context.Context, userID int64) (int, error) {
	var max sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT MAX(session_number) FROM sessions WHERE user_id = ?`, userID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read session number: %w", err)
	}
	return int(max.Int64) + 1, nil
}

// CreateSession inserts s as given. Numbering and deactivation of other
// sessions are the caller's responsibility.
func (q *Queries) CreateSession(ctx context.Context, s *Session) (*Session, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO sessions (
			user_id, session_number, date, initial_capital, stop_loss,
			stop_loss_percent, max_loss_limit, payout_percent, currency, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.SessionNumber, s.Date, s.InitialCapital, floatValue(s.StopLoss),
		floatValue(s.StopLossPercent), intValue(s.MaxLossLimit), floatValue(s.PayoutPercent),
		s.Currency, boolInt(s.IsActive),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("session %d for user %d: %w", s.SessionNumber, s.UserID, common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get session id: %w", err)
	}
	return q.GetSession(ctx, id)
}

func (q *Queries) GetSession(ctx context.Context, id int64) (*Session, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return s, nil
}

// FindSessionsByNumber returns every session of the user with the given
// number. More than one row means the data predates the unique index.
func (q *Queries) FindSessionsByNumber(ctx context.Context, userID int64, number int) ([]Session, error) {
	return q.listSessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND session_number = ? ORDER BY id`,
		userID, number)
}

// ListSessions returns the user's sessions, newest number first.
func (q *Queries) ListSessions(ctx context.Context, userID int64) ([]Session, error) {
	return q.listSessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? ORDER BY session_number DESC`,
		userID)
}

func (q *Queries) GetActiveSession(ctx context.Context, userID int64) (*Session, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = ? AND is_active = 1 ORDER BY session_number DESC LIMIT 1`, userID)
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err, "active session for user", userID)
	}
	return s, nil
}

func (q *Queries) ListActiveSessions(ctx context.Context, userID int64) ([]Session, error) {
	return q.listSessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND is_active = 1 ORDER BY session_number DESC`,
		userID)
}

func (q *Queries) DeactivateSessions(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE sessions SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND is_active = 1`, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}
	return nil
}

func (q *Queries) UpdateSession(ctx context.Context, id int64, p SessionPatch) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	as := p.assignments()
	if len(as) == 0 {
		return nil, ErrNoFields
	}

	set, args := as.set()
	args = append(args, id)
	res, err := q.db.ExecContext(ctx, `UPDATE sessions SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	ok, err := rowsChanged(res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("session %d: %w", id, common.ErrNotFound)
	}
	return q.GetSession(ctx, id)
}
