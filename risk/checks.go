package risk

import "fmt"

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

// Decision lists the alerts raised for a session. Allowed is false when
// any alert is present.
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	StopLossLevel float64 `json:"stop_loss_level"`
	TargetCapital float64 `json:"target_capital"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether the decision carries an alert with the given code.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func Evaluate(p Policy, s Snapshot) Decision {
	d := Decision{Allowed: true}

	d.StopLossLevel = p.StopLossOverride
	if d.StopLossLevel == 0 {
		d.StopLossLevel = StopLossLevel(s.InitialCapital, p.StopLossAlertPct)
	}
	d.TargetCapital = TargetCapital(s.InitialCapital, p.DailyTargetPct)

	if p.StopLossAlertPct > 0 && s.Balance <= d.StopLossLevel {
		d.add("STOP_LOSS_ALERT",
			fmt.Sprintf("balance %.2f at or below stop-loss level %.2f", s.Balance, d.StopLossLevel))
	}

	if p.SessionEndAlert && p.DailyTargetPct > 0 && s.Balance >= d.TargetCapital {
		d.add("DAILY_TARGET_REACHED",
			fmt.Sprintf("balance %.2f reached daily target %.2f", s.Balance, d.TargetCapital))
	}

	if p.LowTradeAlert && s.NextStake > 0 {
		minPct := p.MinStakePct
		if minPct == 0 {
			minPct = DefaultMinStakePct
		}
		min := s.InitialCapital * (minPct / 100)
		if s.NextStake < min {
			d.add("LOW_STAKE",
				fmt.Sprintf("next stake %.2f below minimum %.2f", s.NextStake, min))
		}
	}

	if !p.AllowOverBetting && s.NextStake > s.Balance {
		d.add("OVER_BET",
			fmt.Sprintf("next stake %.2f exceeds balance %.2f", s.NextStake, s.Balance))
	}

	limit := p.MaxLossLimit
	if limit == 0 {
		limit = DefaultMaxLossLimit
	}
	if s.Losses >= limit {
		d.add("MAX_LOSS_LIMIT",
			fmt.Sprintf("losing trades %d >= limit %d", s.Losses, limit))
	}

	return d
}
