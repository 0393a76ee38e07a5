package api

import (
	"net/http"

	"github.com/rustyeddy/tradelog/risk"
)

type nextAmountRequest struct {
	CurrentBalance     float64     `json:"current_balance"`
	PreviousAmount     float64     `json:"previous_amount"`
	PreviousResult     risk.Result `json:"previous_result"`
	RiskPercent        float64     `json:"risk_percent"`
	RecoveryMultiplier float64     `json:"recovery_multiplier"`
	PayoutPercent      float64     `json:"payout_percent"`
}

// POST /api/calc/next-amount
func (s *Server) calcNextAmount(w http.ResponseWriter, r *http.Request) {
	var req nextAmountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	amt := risk.NextTradeAmount(risk.NextTrade(req))
	success(w, map[string]float64{"amount": amt})
}

type tradeReturnRequest struct {
	Amount        float64     `json:"amount"`
	Result        risk.Result `json:"result"`
	PayoutPercent float64     `json:"payout_percent"`
}

// POST /api/calc/trade-return
func (s *Server) calcTradeReturn(w http.ResponseWriter, r *http.Request) {
	var req tradeReturnRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.PayoutPercent == 0 {
		req.PayoutPercent = risk.DefaultPayoutPercent
	}
	ret, err := risk.TradeReturn(req.Amount, req.Result, req.PayoutPercent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, map[string]float64{"return": ret})
}

type positionRequest struct {
	Balance     float64 `json:"balance"`
	RiskPercent float64 `json:"risk_percent"`
	Entry       float64 `json:"entry"`
	Stop        float64 `json:"stop"`
	TakeProfit  float64 `json:"take_profit"`
}

type positionResponse struct {
	risk.Position
	RewardRisk float64 `json:"reward_risk,omitempty"`
}

// POST /api/calc/position-size
func (s *Server) calcPositionSize(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pos, err := risk.PositionSize(req.Balance, req.RiskPercent, req.Entry, req.Stop)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := positionResponse{Position: pos}
	if req.TakeProfit > 0 {
		resp.RewardRisk = risk.RR(req.Entry, req.Stop, req.TakeProfit)
	}
	success(w, resp)
}

type profitLossRequest struct {
	Entry     float64        `json:"entry"`
	Exit      float64        `json:"exit"`
	Quantity  float64        `json:"quantity"`
	Direction risk.Direction `json:"direction"`
}

// POST /api/calc/profit-loss
func (s *Server) calcProfitLoss(w http.ResponseWriter, r *http.Request) {
	var req profitLossRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pl, err := risk.ProfitLoss(req.Entry, req.Exit, req.Quantity, req.Direction)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, map[string]float64{"profit_loss": pl})
}
