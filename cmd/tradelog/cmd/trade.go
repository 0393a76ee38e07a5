package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Log, settle and edit trades",
	Long: `Log stakes in a session and settle them. Every change keeps the
running balance of later trades consistent.

Subcommands:
  add    - Log a pending stake (suggested when no amount is given)
  settle - Mark a trade as a win or a loss
  adjust - Change a trade's stake
  delete - Remove a trade
  list   - List trades
  clear  - Delete all trades of a session, or of every session with --all

Examples:
  tradelog trade add 20 --user me@example.com
  tradelog trade settle 14 win --user me@example.com
  tradelog trade list --session 2 --user me@example.com`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add [amount]",
	Short: "Log a pending stake",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTradeAdd,
}

var tradeSettleCmd = &cobra.Command{
	Use:   "settle <trade-id> <win|loss>",
	Short: "Settle a trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runTradeSettle,
}

var tradeAdjustCmd = &cobra.Command{
	Use:   "adjust <trade-id> <amount>",
	Short: "Change a trade's stake",
	Args:  cobra.ExactArgs(2),
	RunE:  runTradeAdjust,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete trades in bulk",
	Args:  cobra.NoArgs,
	RunE:  runTradeClear,
}

var (
	tradeSession string
	tradeAll     bool
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	for _, c := range []*cobra.Command{tradeAddCmd, tradeSettleCmd, tradeAdjustCmd, tradeDeleteCmd, tradeListCmd, tradeClearCmd} {
		tradeCmd.AddCommand(c)
	}
	addUserFlag(tradeCmd)

	tradeCmd.PersistentFlags().StringVarP(&tradeSession, "session", "s", "", "session number (defaults to the active session)")
	tradeListCmd.Flags().BoolVar(&tradeAll, "all", false, "list trades of every session, newest first")
	tradeClearCmd.Flags().BoolVar(&tradeAll, "all", false, "delete trades of every session")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printTrade(cmd *cobra.Command, verb string, t *journal.Trade) {
	res := t.Result.Upper()
	if res == "" {
		res = "PENDING"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Trade %d %s: #%d %s stake %s return %s balance %s\n",
		t.ID, verb, t.SequenceNumber, res, money(t.TradeAmount), money(t.ReturnAmount), money(t.CurrentBalance))
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		s, err := resolveSession(ctx, a, u.ID, []string{tradeSession})
		if err != nil {
			return err
		}

		var amount float64
		if len(args) == 1 {
			if amount, err = strconv.ParseFloat(args[0], 64); err != nil {
				return fmt.Errorf("amount: %w", err)
			}
		} else if amount, err = a.ledger.SuggestTradeAmount(ctx, u.ID, s.ID); err != nil {
			return err
		}

		t, err := a.ledger.AppendTrade(ctx, u.ID, s.ID, amount)
		if err != nil {
			return err
		}
		printTrade(cmd, "logged", t)
		return nil
	})
}

func runTradeSettle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	result, err := risk.ParseResult(args[1])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		t, err := a.ledger.SettleTrade(ctx, u.ID, id, result)
		if err != nil {
			return err
		}
		printTrade(cmd, "settled", t)
		return nil
	})
}

func runTradeAdjust(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		t, err := a.ledger.AdjustStake(ctx, u.ID, id, amount)
		if err != nil {
			return err
		}
		printTrade(cmd, "adjusted", t)
		return nil
	})
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		if err := a.ledger.DeleteTrade(ctx, u.ID, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Trade %d deleted\n", id)
		return nil
	})
}

// tradeScope resolves --session/--all to a session id, nil meaning all.
func tradeScope(ctx context.Context, a *app, userID int64) (*int64, error) {
	if tradeAll {
		return nil, nil
	}
	s, err := resolveSession(ctx, a, userID, []string{tradeSession})
	if err != nil {
		return nil, err
	}
	return &s.ID, nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		sid, err := tradeScope(ctx, a, u.ID)
		if err != nil {
			return err
		}
		trades, err := a.ledger.Trades(ctx, u.ID, sid)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "ID\tSEQ\tRESULT\tSTAKE\tRETURN\tBALANCE\t")
		for _, t := range trades {
			res := t.Result.Upper()
			if res == "" {
				res = "PENDING"
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t\n",
				t.ID, t.SequenceNumber, res, money(t.TradeAmount), money(t.ReturnAmount), money(t.CurrentBalance))
		}
		return tw.Flush()
	})
}

func runTradeClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}
		sid, err := tradeScope(ctx, a, u.ID)
		if err != nil {
			return err
		}
		deleted, err := a.ledger.ClearTrades(ctx, u.ID, sid)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(cmd.OutOrStdout(), "No trades to delete")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Trades deleted")
		return nil
	})
}
