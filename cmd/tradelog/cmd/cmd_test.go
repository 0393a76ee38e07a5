package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLIBookkeepingFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	user := []string{"--db", db, "--user", "cli@example.com"}
	with := func(args ...string) []string { return append(args, user...) }

	out, err := run(t, "user", "register", "cli@example.com", "--password", "hunter22", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Registered cli@example.com")

	out, err = run(t, with("session", "new", "--capital", "1000")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Session 1 opened (1000.00")

	out, err = run(t, with("trade", "add", "20")...)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 PENDING stake 20.00 return 0.00 balance 980.00")

	out, err = run(t, with("trade", "settle", "1", "win")...)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 WIN stake 20.00 return 18.40 balance 1018.40")

	out, err = run(t, with("trade", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "1018.40")

	out, err = run(t, with("session", "summary")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Trades:      1 (1 won, 0 lost, 0 pending)")
	assert.Contains(t, out, "Balance:     1018.40")

	out, err = run(t, with("export")...)
	require.NoError(t, err)
	assert.Equal(t, "No.,Result,Trade Amount,Return,Current Balance\n1,WIN,20.00,18.40,1018.40\n", out)

	out, err = run(t, with("export", "--format", "org")...)
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | WIN | 20.00 | 18.40 | 1018.40 |")

	_, err = run(t, with("trade", "add", "Inf")...)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = run(t, with("settings", "set", "initial_capital=.inf")...)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = run(t, with("trade", "settle", "1", "draw")...)
	assert.Error(t, err)

	_, err = run(t, with("session", "switch", "9")...)
	assert.Error(t, err)
}

func TestCLICalc(t *testing.T) {
	out, err := run(t, "calc", "next-amount", "--balance", "1000", "--risk", "2")
	require.NoError(t, err)
	assert.Equal(t, "20.00\n", out)

	out, err = run(t, "calc", "trade-return", "--amount", "20", "--result", "win", "--payout", "85")
	require.NoError(t, err)
	assert.Equal(t, "17.00\n", out)

	out, err = run(t, "calc", "profit-loss", "--entry", "100", "--exit", "110", "--qty", "5", "--direction", "short")
	require.NoError(t, err)
	assert.Equal(t, "-50.00\n", out)

	out, err = run(t, "calc", "position-size", "--balance", "1000", "--risk", "2", "--entry", "100", "--stop", "95", "--take-profit", "110")
	require.NoError(t, err)
	assert.Contains(t, out, "Max quantity:  4\n")
	assert.Contains(t, out, "Reward/risk:   2.00\n")

	_, err = run(t, "calc", "position-size", "--balance", "1000", "--entry", "100", "--stop", "100", "--take-profit", "0")
	assert.Error(t, err)
}

func TestParseSettings(t *testing.T) {
	p, err := parseSettings([]string{"risk_percent=3", "session_end_alert=true", "daily_goal_format=%", "currency = EUR"})
	require.NoError(t, err)
	require.NotNil(t, p.RiskPercent)
	assert.Equal(t, 3.0, *p.RiskPercent)
	require.NotNil(t, p.SessionEndAlert)
	assert.True(t, *p.SessionEndAlert)
	require.NotNil(t, p.DailyGoalFormat)
	assert.Equal(t, "%", *p.DailyGoalFormat)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "EUR", *p.Currency)
	assert.Nil(t, p.InitialCapital)

	_, err = parseSettings([]string{"risk_percent"})
	assert.Error(t, err)

	_, err = parseSettings([]string{"no_such_field=1"})
	assert.Error(t, err)
}
