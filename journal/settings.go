package journal

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradelog/internal/common"
)

const settingsColumns = `id, user_id, initial_capital, risk_percent, recovery_multiplier,
	daily_profit_target_percent, daily_goal_format, stop_loss_alert_percent,
	session_end_alert, low_trade_alert, auto_copy_balance, auto_log_session,
	auto_count_session, currency, created_at, updated_at`

func scanSettings(row scanner) (*UserSettings, error) {
	var (
		s                                      UserSettings
		sessionEnd, lowTrade, copyBal, logSess int64
		countSess                              int64
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.InitialCapital, &s.RiskPercent, &s.RecoveryMultiplier,
		&s.DailyProfitTargetPercent, &s.DailyGoalFormat, &s.StopLossAlertPercent,
		&sessionEnd, &lowTrade, &copyBal, &logSess,
		&countSess, &s.Currency, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.SessionEndAlert = intBool(sessionEnd)
	s.LowTradeAlert = intBool(lowTrade)
	s.AutoCopyBalance = intBool(copyBal)
	s.AutoLogSession = intBool(logSess)
	s.AutoCountSession = intBool(countSess)
	return &s, nil
}

// CreateSettings inserts the settings row for s.UserID. A second row for
// the same user fails with common.ErrAlreadyExists.
func (q *Queries) CreateSettings(ctx context.Context, s *UserSettings) (*UserSettings, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO user_settings (
			user_id, initial_capital, risk_percent, recovery_multiplier,
			daily_profit_target_percent, daily_goal_format, stop_loss_alert_percent,
			session_end_alert, low_trade_alert, auto_copy_balance,
			auto_log_session, auto_count_session, currency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.InitialCapital, s.RiskPercent, s.RecoveryMultiplier,
		s.DailyProfitTargetPercent, s.DailyGoalFormat, s.StopLossAlertPercent,
		boolInt(s.SessionEndAlert), boolInt(s.LowTradeAlert), boolInt(s.AutoCopyBalance),
		boolInt(s.AutoLogSession), boolInt(s.AutoCountSession), s.Currency,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("settings for user %d: %w", s.UserID, common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert settings: %w", err)
	}
	return q.GetSettings(ctx, s.UserID)
}

func (q *Queries) GetSettings(ctx context.Context, userID int64) (*UserSettings, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM user_settings WHERE user_id = ?`, userID)
	s, err := scanSettings(row)
	if err != nil {
		return nil, notFound(err, "settings for user", userID)
	}
	return s, nil
}

// UpdateSettings applies the non-nil fields of p. An empty patch fails with
// ErrNoFields.
func (q *Queries) UpdateSettings(ctx context.Context, userID int64, p SettingsPatch) (*UserSettings, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	as := p.assignments()
	if len(as) == 0 {
		return nil, ErrNoFields
	}

	set, args := as.set()
	args = append(args, userID)
	res, err := q.db.ExecContext(ctx, `UPDATE user_settings SET `+set+` WHERE user_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	ok, err := rowsChanged(res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("settings for user %d: %w", userID, common.ErrNotFound)
	}
	return q.GetSettings(ctx, userID)
}
