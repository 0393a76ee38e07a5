package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testDefaults = journal.UserSettings{
	InitialCapital:           18000,
	RiskPercent:              2,
	RecoveryMultiplier:       2,
	DailyProfitTargetPercent: 2,
	DailyGoalFormat:          journal.GoalPercent,
	StopLossAlertPercent:     20,
	AutoCopyBalance:          true,
	AutoLogSession:           true,
	AutoCountSession:         true,
	Currency:                 "USD",
}

func newTestService(t *testing.T) (*Service, *journal.Store) {
	t.Helper()

	store, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, testDefaults, WithCost(bcrypt.MinCost)), store
}

func TestRegisterSeedsSettings(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "New@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	st, err := svc.Settings(ctx, u.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18000.0, st.InitialCapital, 1e-9)
	assert.Equal(t, "%", st.DailyGoalFormat)
	assert.False(t, st.SessionEndAlert)
	assert.True(t, st.AutoCountSession)
	assert.Equal(t, "USD", st.Currency)
}

func TestRegisterRejects(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = svc.Register(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Register(ctx, "short@example.com", "abc")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = store.GetUserByEmail(ctx, "short@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, "login@example.com", "secret1")
	require.NoError(t, err)

	got, err := svc.Login(ctx, "LOGIN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, "rotate@example.com", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "bad", "secret2"), common.ErrUnauthorized)
	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "secret1", "x"), common.ErrInvalidArgument)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "secret1", "secret2"))

	_, err = svc.Login(ctx, "rotate@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Login(ctx, "rotate@example.com", "secret2")
	assert.NoError(t, err)
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, "s@example.com", "secret1")
	require.NoError(t, err)

	on := true
	st, err := svc.UpdateSettings(ctx, u.ID, journal.SettingsPatch{LowTradeAlert: &on})
	require.NoError(t, err)
	assert.True(t, st.LowTradeAlert)

	_, err = svc.UpdateSettings(ctx, u.ID, journal.SettingsPatch{})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}
