package journal

import (
	"context"
	"math"
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, s *Store, userID int64, number int, active bool) *Session {
	t.Helper()

	sess, err := s.CreateSession(context.Background(), &Session{
		UserID:         userID,
		SessionNumber:  number,
		Date:           "2026-10-18",
		InitialCapital: 1000,
		Currency:       "USD",
		IsActive:       active,
	})
	require.NoError(t, err)
	return sess
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "a@example.com")

	n, err := s.NextSessionNumber(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sess := newTestSession(t, s, u.ID, n, true)
	assert.Equal(t, 1, sess.SessionNumber)
	assert.True(t, sess.IsActive)
	assert.Nil(t, sess.CapitalFinal)
	assert.Nil(t, sess.MaxLossLimit)
	assert.InDelta(t, 92.0, sess.Payout(), 1e-9)

	n, err = s.NextSessionNumber(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.CreateSession(ctx, &Session{UserID: u.ID, SessionNumber: 1, Date: "2026-10-18", InitialCapital: 5, Currency: "USD"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestSessionNumbersArePerUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	a := newTestUser(t, s, "a@example.com")
	b := newTestUser(t, s, "b@example.com")

	newTestSession(t, s, a.ID, 1, true)
	newTestSession(t, s, a.ID, 2, true)
	newTestSession(t, s, b.ID, 1, true)

	n, err := s.NextSessionNumber(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListAndActiveSessions(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "a@example.com")

	newTestSession(t, s, u.ID, 1, false)
	second := newTestSession(t, s, u.ID, 2, true)
	newTestSession(t, s, u.ID, 3, false)

	list, err := s.ListSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].SessionNumber)
	assert.Equal(t, 1, list[2].SessionNumber)

	active, err := s.GetActiveSession(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	require.NoError(t, s.DeactivateSessions(ctx, u.ID))
	_, err = s.GetActiveSession(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	found, err := s.FindSessionsByNumber(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	found, err = s.FindSessionsByNumber(ctx, u.ID, 9)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUpdateSession(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "a@example.com")
	sess := newTestSession(t, s, u.ID, 1, true)

	payout := 85.0
	limit := 10
	off := false
	got, err := s.UpdateSession(ctx, sess.ID, SessionPatch{PayoutPercent: &payout, MaxLossLimit: &limit, IsActive: &off})
	require.NoError(t, err)
	require.NotNil(t, got.PayoutPercent)
	assert.InDelta(t, 85.0, got.Payout(), 1e-9)
	require.NotNil(t, got.MaxLossLimit)
	assert.Equal(t, 10, *got.MaxLossLimit)
	assert.False(t, got.IsActive)

	_, err = s.UpdateSession(ctx, sess.ID, SessionPatch{})
	assert.ErrorIs(t, err, ErrNoFields)

	neg := -1
	_, err = s.UpdateSession(ctx, sess.ID, SessionPatch{TotalTrades: &neg})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.UpdateSession(ctx, 999, SessionPatch{PayoutPercent: &payout})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPatchesRejectNonFinite(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		sessionPatches := []SessionPatch{
			{CapitalFinal: &v},
			{AccountGain: &v},
			{WinProfit: &v},
			{StopLoss: &v},
			{StopLossPercent: &v},
			{PayoutPercent: &v},
		}
		for i, p := range sessionPatches {
			assert.ErrorIs(t, p.Validate(), common.ErrInvalidArgument, "session patch %d with %v", i, v)
		}

		tradePatches := []TradePatch{
			{TradeAmount: &v},
			{ReturnAmount: &v},
			{CurrentBalance: &v},
		}
		for i, p := range tradePatches {
			assert.ErrorIs(t, p.Validate(), common.ErrInvalidArgument, "trade patch %d with %v", i, v)
		}
	}
}

func TestUpdateSessionRejectsInfinitePayout(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "inf@example.com")
	sess := newTestSession(t, s, u.ID, 1, true)

	inf := math.Inf(1)
	_, err := s.UpdateSession(ctx, sess.ID, SessionPatch{PayoutPercent: &inf})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PayoutPercent)
}
