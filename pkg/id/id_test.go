package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSorted(t *testing.T) {
	t.Parallel()

	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewParses(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	parsed, err := ulid.ParseStrict(New())
	require.NoError(t, err)
	assert.True(t, ulid.Time(parsed.Time()).After(before))
}
