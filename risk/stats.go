package risk

// WinRate is the percentage of records that are wins. Empty input is 0.
func WinRate(recs []Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	wins := 0
	for _, r := range recs {
		if r.Result == Win {
			wins++
		}
	}
	return float64(wins) / float64(len(recs)) * 100
}

func TotalProfitLoss(recs []Record) float64 {
	var sum float64
	for _, r := range recs {
		sum += r.PL
	}
	return sum
}

// Streak is a run of consecutive equal results ending at the newest
// settled trade.
type Streak struct {
	Result Result `json:"result"`
	Count  int    `json:"count"`
}

// CurrentStreak walks recs (oldest first) from the end, skipping pending
// records.
func CurrentStreak(recs []Record) Streak {
	var s Streak
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i].Result
		if !r.Settled() {
			continue
		}
		if s.Count == 0 {
			s.Result = r
		} else if r != s.Result {
			break
		}
		s.Count++
	}
	return s
}

// Counts tallies settled results.
func Counts(recs []Record) (wins, losses int) {
	for _, r := range recs {
		switch r.Result {
		case Win:
			wins++
		case Loss:
			losses++
		}
	}
	return
}
