package journal

import (
	"context"
	"math"
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:                   userID,
		InitialCapital:           18000,
		RiskPercent:              2,
		RecoveryMultiplier:       2,
		DailyProfitTargetPercent: 2,
		DailyGoalFormat:          GoalPercent,
		StopLossAlertPercent:     20,
		AutoCopyBalance:          true,
		AutoLogSession:           true,
		AutoCountSession:         true,
		Currency:                 "USD",
	}
}

func TestCreateSettings(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "s@example.com")

	got, err := s.CreateSettings(ctx, defaultSettings(u.ID))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.InDelta(t, 18000.0, got.InitialCapital, 1e-9)
	assert.False(t, got.SessionEndAlert)
	assert.True(t, got.AutoCopyBalance)
	assert.Equal(t, "%", got.DailyGoalFormat)

	_, err = s.CreateSettings(ctx, defaultSettings(u.ID))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "s@example.com")
	_, err := s.CreateSettings(ctx, defaultSettings(u.ID))
	require.NoError(t, err)

	risk := 3.5
	on := true
	off := false
	format := GoalCurrency
	cur := "eur"
	got, err := s.UpdateSettings(ctx, u.ID, SettingsPatch{
		RiskPercent:     &risk,
		SessionEndAlert: &on,
		AutoCopyBalance: &off,
		DailyGoalFormat: &format,
		Currency:        &cur,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got.RiskPercent, 1e-9)
	assert.True(t, got.SessionEndAlert)
	assert.False(t, got.AutoCopyBalance)
	assert.Equal(t, "$", got.DailyGoalFormat)
	assert.Equal(t, "EUR", got.Currency)
	assert.InDelta(t, 18000.0, got.InitialCapital, 1e-9)

	var raw int
	require.NoError(t, s.DB().QueryRow(`SELECT session_end_alert FROM user_settings WHERE user_id = ?`, u.ID).Scan(&raw))
	assert.Equal(t, 1, raw)
}

func TestUpdateSettingsValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "s@example.com")
	_, err := s.CreateSettings(ctx, defaultSettings(u.ID))
	require.NoError(t, err)

	_, err = s.UpdateSettings(ctx, u.ID, SettingsPatch{})
	assert.ErrorIs(t, err, ErrNoFields)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	bad := "€"
	_, err = s.UpdateSettings(ctx, u.ID, SettingsPatch{DailyGoalFormat: &bad})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	zero := 0.0
	_, err = s.UpdateSettings(ctx, u.ID, SettingsPatch{RiskPercent: &zero})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	got, err := s.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "%", got.DailyGoalFormat)
	assert.InDelta(t, 2.0, got.RiskPercent, 1e-9)
}

func TestUpdateSettingsMissingUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	v := 1.0
	_, err := s.UpdateSettings(context.Background(), 77, SettingsPatch{RiskPercent: &v})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateSettingsRejectsNonFinite(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "nf@example.com")
	_, err := s.CreateSettings(ctx, defaultSettings(u.ID))
	require.NoError(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		patches := map[string]SettingsPatch{
			"initial_capital":             {InitialCapital: &v},
			"risk_percent":                {RiskPercent: &v},
			"recovery_multiplier":         {RecoveryMultiplier: &v},
			"daily_profit_target_percent": {DailyProfitTargetPercent: &v},
			"stop_loss_alert_percent":     {StopLossAlertPercent: &v},
		}
		for name, p := range patches {
			_, err := s.UpdateSettings(ctx, u.ID, p)
			assert.ErrorIs(t, err, common.ErrInvalidArgument, "%s=%v", name, v)
		}
	}

	got, err := s.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18000.0, got.InitialCapital, 1e-9)
	assert.InDelta(t, 20.0, got.StopLossAlertPercent, 1e-9)
}
