package risk

// Policy is the alerting configuration taken from a user's settings and
// the active session.
type Policy struct {
	StopLossAlertPct float64 // 20 means alert at 80% of initial capital
	DailyTargetPct   float64 // 2.0
	SessionEndAlert  bool
	LowTradeAlert    bool
	MinStakePct      float64 // of initial capital, 2.0
	MaxLossLimit     int     // losing trades per session, 16
	StopLossOverride float64 // session stop_loss, 0 = derive from StopLossAlertPct
	AllowOverBetting bool
}

// DefaultMaxLossLimit applies when a session has no max_loss_limit.
const DefaultMaxLossLimit = 16

// DefaultMinStakePct is the low-stake threshold as a percent of capital.
const DefaultMinStakePct = 2.0

// Snapshot is the session state the checks run against.
type Snapshot struct {
	InitialCapital float64
	Balance        float64
	NextStake      float64
	Losses         int
}
