package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenRejects(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	other := NewTokens("other-secret", time.Hour)
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(42)
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 42})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
