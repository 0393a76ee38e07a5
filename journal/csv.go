package journal

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// CSVHeader is the first row of every trade export.
var CSVHeader = []string{"No.", "Result", "Trade Amount", "Return", "Current Balance"}

// WriteCSV writes trades in ascending sequence order, one row each, with
// money columns fixed to two decimals. An empty slice writes only the
// header.
func WriteCSV(w io.Writer, trades []Trade) error {
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i, t := range sorted {
		err := cw.Write([]string{
			strconv.Itoa(i + 1),
			t.Result.Upper(),
			money(t.TradeAmount),
			money(t.ReturnAmount),
			money(t.CurrentBalance),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
