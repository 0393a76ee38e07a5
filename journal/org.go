package journal

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSessionOrg renders a session and its trades as an Org-mode block
// for pasting into a trading diary. Structured facts go in a PROPERTIES
// drawer and the trades in an Org table.
func FormatSessionOrg(s Session, trades []Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Session %d (%s)\n", s.SessionNumber, s.Date)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":SESSION_ID: %d\n", s.ID)
	fmt.Fprintf(&b, ":CURRENCY: %s\n", s.Currency)
	fmt.Fprintf(&b, ":INITIAL_CAPITAL: %s\n", money(s.InitialCapital))
	fmt.Fprintf(&b, ":CAPITAL_FINAL: %s\n", optMoney(s.CapitalFinal))
	fmt.Fprintf(&b, ":ACCOUNT_GAIN: %s\n", optMoney(s.AccountGain))
	fmt.Fprintf(&b, ":WIN_PROFIT: %s\n", optMoney(s.WinProfit))
	fmt.Fprintf(&b, ":PAYOUT: %s\n", money(s.Payout()))
	fmt.Fprintf(&b, ":TRADES: %d\n", s.TotalTrades)
	fmt.Fprintf(&b, ":WINS: %d\n", s.WinningTrades)
	fmt.Fprintf(&b, ":LOSSES: %d\n", s.LosingTrades)
	b.WriteString(":END:\n\n")

	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	b.WriteString("| " + strings.Join(CSVHeader, " | ") + " |\n")
	b.WriteString("|---+---+---+---+---|\n")
	for i, t := range sorted {
		res := t.Result.Upper()
		if res == "" {
			res = "PENDING"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			i+1, res, money(t.TradeAmount), money(t.ReturnAmount), money(t.CurrentBalance))
	}
	b.WriteString("\n*** Review\n- \n")
	return b.String()
}

func optMoney(p *float64) string {
	if p == nil {
		return "-"
	}
	return money(*p)
}
