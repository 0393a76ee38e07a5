package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradelog/risk"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Stateless trading calculators",
	Long: `Run the sizing and P/L calculators without touching the journal.

Examples:
  tradelog calc next-amount --balance 1000 --risk 2
  tradelog calc next-amount --balance 980 --prev-amount 20 --prev-result loss --multiplier 2
  tradelog calc trade-return --amount 20 --result win --payout 85
  tradelog calc position-size --balance 1000 --risk 1 --entry 100 --stop 95 --take-profit 110
  tradelog calc profit-loss --entry 100 --exit 110 --qty 5 --direction short`,
}

var calcNextCmd = &cobra.Command{
	Use:   "next-amount",
	Short: "Stake for the next trade",
	Args:  cobra.NoArgs,
	RunE:  runCalcNext,
}

var calcReturnCmd = &cobra.Command{
	Use:   "trade-return",
	Short: "Signed return of a settled stake",
	Args:  cobra.NoArgs,
	RunE:  runCalcReturn,
}

var calcPositionCmd = &cobra.Command{
	Use:   "position-size",
	Short: "Size a position from a stop distance",
	Args:  cobra.NoArgs,
	RunE:  runCalcPosition,
}

var calcPLCmd = &cobra.Command{
	Use:   "profit-loss",
	Short: "P/L of a priced position",
	Args:  cobra.NoArgs,
	RunE:  runCalcPL,
}

var (
	calcBalance    float64
	calcRisk       float64
	calcPosRisk    float64
	calcPrevAmount float64
	calcPrevResult string
	calcMultiplier float64
	calcAmount     float64
	calcResult     string
	calcPayout     float64
	calcEntry      float64
	calcStop       float64
	calcTakeProfit float64
	calcExit       float64
	calcQty        float64
	calcDirection  string
)

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcNextCmd)
	calcCmd.AddCommand(calcReturnCmd)
	calcCmd.AddCommand(calcPositionCmd)
	calcCmd.AddCommand(calcPLCmd)

	calcNextCmd.Flags().Float64Var(&calcBalance, "balance", 0, "current balance")
	calcNextCmd.Flags().Float64Var(&calcRisk, "risk", 2, "risk percent of balance")
	calcNextCmd.Flags().Float64Var(&calcPrevAmount, "prev-amount", 0, "previous stake")
	calcNextCmd.Flags().StringVar(&calcPrevResult, "prev-result", "", "previous result (win or loss)")
	calcNextCmd.Flags().Float64Var(&calcMultiplier, "multiplier", 1, "recovery multiplier after a loss")
	calcNextCmd.Flags().Float64Var(&calcPayout, "payout", risk.DefaultPayoutPercent, "payout percent")

	calcReturnCmd.Flags().Float64Var(&calcAmount, "amount", 0, "stake")
	calcReturnCmd.Flags().StringVar(&calcResult, "result", "", "win or loss (required)")
	calcReturnCmd.Flags().Float64Var(&calcPayout, "payout", risk.DefaultPayoutPercent, "payout percent")
	calcReturnCmd.MarkFlagRequired("result")

	calcPositionCmd.Flags().Float64Var(&calcBalance, "balance", 0, "account balance")
	calcPositionCmd.Flags().Float64Var(&calcPosRisk, "risk", 1, "risk percent of balance")
	calcPositionCmd.Flags().Float64Var(&calcEntry, "entry", 0, "entry price")
	calcPositionCmd.Flags().Float64Var(&calcStop, "stop", 0, "stop price")
	calcPositionCmd.Flags().Float64Var(&calcTakeProfit, "take-profit", 0, "take-profit price (adds the reward/risk ratio)")

	calcPLCmd.Flags().Float64Var(&calcEntry, "entry", 0, "entry price")
	calcPLCmd.Flags().Float64Var(&calcExit, "exit", 0, "exit price")
	calcPLCmd.Flags().Float64Var(&calcQty, "qty", 0, "quantity")
	calcPLCmd.Flags().StringVar(&calcDirection, "direction", string(risk.Long), "long or short")
}

func runCalcNext(cmd *cobra.Command, args []string) error {
	var prev risk.Result
	if calcPrevResult != "" {
		r, err := risk.ParseResult(calcPrevResult)
		if err != nil {
			return err
		}
		prev = r
	}
	amt := risk.NextTradeAmount(risk.NextTrade{
		CurrentBalance:     calcBalance,
		PreviousAmount:     calcPrevAmount,
		PreviousResult:     prev,
		RiskPercent:        calcRisk,
		RecoveryMultiplier: calcMultiplier,
		PayoutPercent:      calcPayout,
	})
	fmt.Fprintln(cmd.OutOrStdout(), money(amt))
	return nil
}

func runCalcReturn(cmd *cobra.Command, args []string) error {
	result, err := risk.ParseResult(calcResult)
	if err != nil {
		return err
	}
	ret, err := risk.TradeReturn(calcAmount, result, calcPayout)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), money(ret))
	return nil
}

func runCalcPosition(cmd *cobra.Command, args []string) error {
	pos, err := risk.PositionSize(calcBalance, calcPosRisk, calcEntry, calcStop)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Risk amount:   %s\n", money(pos.RiskAmount))
	fmt.Fprintf(out, "Max quantity:  %.0f\n", pos.MaxQuantity)
	fmt.Fprintf(out, "Position size: %s\n", money(pos.PositionSize))
	if calcTakeProfit > 0 {
		fmt.Fprintf(out, "Reward/risk:   %.2f\n", risk.RR(calcEntry, calcStop, calcTakeProfit))
	}
	return nil
}

func runCalcPL(cmd *cobra.Command, args []string) error {
	pl, err := risk.ProfitLoss(calcEntry, calcExit, calcQty, risk.Direction(calcDirection))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), money(pl))
	return nil
}
