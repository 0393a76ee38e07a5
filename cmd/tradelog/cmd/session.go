package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Open, list and switch trading sessions",
	Long: `Manage a user's numbered trading sessions.

Subcommands:
  new     - Open a session and make it the active one
  list    - List every session with its totals
  switch  - Make another session active
  summary - Statistics, next stake and alerts for a session

Examples:
  tradelog session new --user me@example.com --capital 1000
  tradelog session switch 2 --user me@example.com
  tradelog session summary --user me@example.com`,
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Open a new active session",
	Args:  cobra.NoArgs,
	RunE:  runSessionNew,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionSwitchCmd = &cobra.Command{
	Use:   "switch <session-number>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionSwitch,
}

var sessionSummaryCmd = &cobra.Command{
	Use:   "summary [session-number]",
	Short: "Show session statistics",
	Long: `Show statistics for a session, the active one when no number is given.

Example:
  tradelog session summary 3 --user me@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionSummary,
}

var (
	sessionCapital  float64
	sessionCurrency string
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionSwitchCmd)
	sessionCmd.AddCommand(sessionSummaryCmd)
	addUserFlag(sessionCmd)

	sessionNewCmd.Flags().Float64Var(&sessionCapital, "capital", 0, "initial capital (required)")
	sessionNewCmd.Flags().StringVar(&sessionCurrency, "currency", "", "currency code (defaults to the user's setting)")
	sessionNewCmd.MarkFlagRequired("capital")
}

func runSessionNew(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		s, err := a.ledger.CreateSession(ctx, u.ID, sessionCapital, sessionCurrency)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Session %d opened (%s %s), id %d\n",
			s.SessionNumber, money(s.InitialCapital), s.Currency, s.ID)
		return nil
	})
}

func runSessionList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		sessions, err := a.ledger.Sessions(ctx, u.ID)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NO.\tID\tDATE\tCAPITAL\tFINAL\tGAIN %\tTRADES\tW/L\tACTIVE")
		for _, s := range sessions {
			active := ""
			if s.IsActive {
				active = "*"
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%d\t%d/%d\t%s\n",
				s.SessionNumber, s.ID, s.Date, money(s.InitialCapital),
				optMoney(s.CapitalFinal), optMoney(s.AccountGain),
				s.TotalTrades, s.WinningTrades, s.LosingTrades, active)
		}
		return tw.Flush()
	})
}

func runSessionSwitch(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("session number: %w", err)
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		s, err := a.ledger.SwitchActiveSession(ctx, u.ID, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Session %d is active\n", s.SessionNumber)
		return nil
	})
}

func runSessionSummary(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		s, err := resolveSession(ctx, a, u.ID, args)
		if err != nil {
			return err
		}
		sum, err := a.ledger.Summary(ctx, u.ID, s.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session %d (%s, %s)\n", s.SessionNumber, s.Date, s.Currency)
		fmt.Fprintf(out, "  Trades:      %d (%d won, %d lost, %d pending)\n", sum.TotalTrades, sum.Wins, sum.Losses, sum.Pending)
		fmt.Fprintf(out, "  Win rate:    %.1f%%\n", sum.WinRate)
		fmt.Fprintf(out, "  Balance:     %s (%+.2f%%)\n", money(sum.Balance), sum.GainPercent)
		fmt.Fprintf(out, "  Net P/L:     %s\n", money(sum.NetProfitLoss))
		fmt.Fprintf(out, "  Win profit:  %s\n", money(sum.WinProfit))
		fmt.Fprintf(out, "  Payout:      %.0f%%\n", sum.Payout)
		fmt.Fprintf(out, "  Next stake:  %s\n", money(sum.NextStake))
		fmt.Fprintf(out, "  Sessions to target: %d\n", sum.SessionsRequired)
		if sum.Streak.Count > 0 {
			fmt.Fprintf(out, "  Streak:      %d %s\n", sum.Streak.Count, sum.Streak.Result.Upper())
		}
		fmt.Fprintf(out, "  Stop-loss level: %s  Target: %s\n",
			money(sum.Alerts.StopLossLevel), money(sum.Alerts.TargetCapital))
		for _, v := range sum.Alerts.Violations {
			fmt.Fprintf(out, "  ! %s: %s\n", v.Code, v.Msg)
		}
		return nil
	})
}

// resolveSession picks the session named by number in args, or the
// active session when args is empty.
func resolveSession(ctx context.Context, a *app, userID int64, args []string) (*journal.Session, error) {
	if len(args) == 0 || args[0] == "" {
		return a.ledger.ActiveSession(ctx, userID)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("session number: %w", err)
	}
	sessions, err := a.ledger.Sessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].SessionNumber == n {
			return &sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session %d: %w", n, common.ErrNotFound)
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

func optMoney(p *float64) string {
	if p == nil {
		return "-"
	}
	return money(*p)
}
