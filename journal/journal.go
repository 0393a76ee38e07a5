// Package journal is the persistence collaborator: the domain records for
// users, settings, sessions and trades, typed partial-update patches, and
// the SQLite store behind them.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/tradelog/risk"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Daily goal formats.
const (
	GoalPercent  = "%"
	GoalCurrency = "$"
)

// UserSettings is the per-user configuration. There is exactly one row per
// user.
type UserSettings struct {
	ID                       int64     `json:"id" yaml:"id"`
	UserID                   int64     `json:"user_id" yaml:"user_id"`
	InitialCapital           float64   `json:"initial_capital" yaml:"initial_capital"`
	RiskPercent              float64   `json:"risk_percent" yaml:"risk_percent"`
	RecoveryMultiplier       float64   `json:"recovery_multiplier" yaml:"recovery_multiplier"`
	DailyProfitTargetPercent float64   `json:"daily_profit_target_percent" yaml:"daily_profit_target_percent"`
	DailyGoalFormat          string    `json:"daily_goal_format" yaml:"daily_goal_format"`
	StopLossAlertPercent     float64   `json:"stop_loss_alert_percent" yaml:"stop_loss_alert_percent"`
	SessionEndAlert          bool      `json:"session_end_alert" yaml:"session_end_alert"`
	LowTradeAlert            bool      `json:"low_trade_alert" yaml:"low_trade_alert"`
	AutoCopyBalance          bool      `json:"auto_copy_balance" yaml:"auto_copy_balance"`
	AutoLogSession           bool      `json:"auto_log_session" yaml:"auto_log_session"`
	AutoCountSession         bool      `json:"auto_count_session" yaml:"auto_count_session"`
	Currency                 string    `json:"currency" yaml:"currency"`
	CreatedAt                time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt                time.Time `json:"updated_at" yaml:"updated_at"`
}

// DateLayout is the format of Session.Date.
const DateLayout = "2006-01-02"

// Session is one trading session. Optional columns are nil until set.
type Session struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	SessionNumber   int       `json:"session_number"`
	Date            string    `json:"date"`
	InitialCapital  float64   `json:"initial_capital"`
	CapitalFinal    *float64  `json:"capital_final"`
	AccountGain     *float64  `json:"account_gain"`
	WinProfit       *float64  `json:"win_profit"`
	StopLoss        *float64  `json:"stop_loss"`
	StopLossPercent *float64  `json:"stop_loss_percent"`
	MaxLossLimit    *int      `json:"max_loss_limit"`
	TotalTrades     int       `json:"total_trades"`
	WinningTrades   int       `json:"winning_trades"`
	LosingTrades    int       `json:"losing_trades"`
	PayoutPercent   *float64  `json:"payout_percent"`
	Currency        string    `json:"currency"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Payout returns the session payout or risk.DefaultPayoutPercent when unset.
func (s *Session) Payout() float64 {
	if s.PayoutPercent == nil || *s.PayoutPercent == 0 {
		return risk.DefaultPayoutPercent
	}
	return *s.PayoutPercent
}

// Trade is one stake-and-outcome event. SessionID is nil for trades whose
// session no longer exists.
type Trade struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	SessionID      *int64      `json:"session_id"`
	Result         risk.Result `json:"result"`
	TradeAmount    float64     `json:"trade_amount"`
	ReturnAmount   float64     `json:"return_amount"`
	CurrentBalance float64     `json:"current_balance"`
	SequenceNumber int         `json:"sequence_number"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (t Trade) Record() risk.Record {
	return risk.Record{Result: t.Result, PL: t.ReturnAmount}
}

// Records maps trades to the aggregate inputs of the risk package.
func Records(trades []Trade) []risk.Record {
	out := make([]risk.Record, len(trades))
	for i, t := range trades {
		out[i] = t.Record()
	}
	return out
}

// Repository is the CRUD surface the bookkeeping service consumes. A nil
// sessionID on trade queries selects every trade of the user, except for
// ListChain and NextSequenceNumber where it selects the unsessioned chain.
type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	CreateSettings(ctx context.Context, s *UserSettings) (*UserSettings, error)
	GetSettings(ctx context.Context, userID int64) (*UserSettings, error)
	UpdateSettings(ctx context.Context, userID int64, p SettingsPatch) (*UserSettings, error)

	NextSessionNumber(ctx context.Context, userID int64) (int, error)
	CreateSession(ctx context.Context, s *Session) (*Session, error)
	GetSession(ctx context.Context, id int64) (*Session, error)
	FindSessionsByNumber(ctx context.Context, userID int64, number int) ([]Session, error)
	ListSessions(ctx context.Context, userID int64) ([]Session, error)
	GetActiveSession(ctx context.Context, userID int64) (*Session, error)
	ListActiveSessions(ctx context.Context, userID int64) ([]Session, error)
	DeactivateSessions(ctx context.Context, userID int64) error
	UpdateSession(ctx context.Context, id int64, p SessionPatch) (*Session, error)

	CreateTrade(ctx context.Context, t *Trade) (*Trade, error)
	GetTrade(ctx context.Context, id int64) (*Trade, error)
	ListTrades(ctx context.Context, userID int64, sessionID *int64) ([]Trade, error)
	ListChain(ctx context.Context, userID int64, sessionID *int64) ([]Trade, error)
	NextSequenceNumber(ctx context.Context, userID int64, sessionID *int64) (int, error)
	UpdateTrade(ctx context.Context, id int64, p TradePatch) (*Trade, error)
	DeleteTrade(ctx context.Context, id int64) (bool, error)
	DeleteTrades(ctx context.Context, userID int64, sessionID *int64) (bool, error)
}
