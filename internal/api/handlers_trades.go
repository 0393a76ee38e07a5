package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
)

type appendRequest struct {
	SessionID   int64   `json:"session_id"`
	TradeAmount float64 `json:"trade_amount"`
}

type settleRequest struct {
	Result string `json:"result"`
}

type adjustRequest struct {
	TradeAmount float64 `json:"trade_amount"`
}

// GET /api/trades?session_id=
func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := querySession(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trades, err := s.ledger.Trades(r.Context(), uid, sid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if trades == nil {
		trades = []journal.Trade{}
	}
	success(w, trades)
}

// POST /api/trades
func (s *Server) appendTrade(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req appendRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.ledger.AppendTrade(r.Context(), uid, req.SessionID, req.TradeAmount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	created(w, t)
}

// DELETE /api/trades?session_id=
func (s *Server) clearTrades(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := querySession(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	deleted, err := s.ledger.ClearTrades(r.Context(), uid, sid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, map[string]bool{"deleted": deleted})
}

// GET /api/trades/{id}
func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.ledger.Trade(r.Context(), uid, tid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, t)
}

// POST /api/trades/{id}/settle
func (s *Server) settleTrade(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req settleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := risk.ParseResult(req.Result)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.ledger.SettleTrade(r.Context(), uid, tid, result)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, t)
}

// PATCH /api/trades/{id}
func (s *Server) adjustStake(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req adjustRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.ledger.AdjustStake(r.Context(), uid, tid, req.TradeAmount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, t)
}

// DELETE /api/trades/{id}
func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.ledger.DeleteTrade(r.Context(), uid, tid); err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, map[string]bool{"deleted": true})
}

// GET /api/export?session_id=
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := querySession(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := s.ledger.Export(r.Context(), &buf, uid, sid); err != nil {
		s.fail(w, r, err)
		return
	}
	name := "trades.csv"
	if sid != nil {
		name = fmt.Sprintf("session-%d-trades.csv", *sid)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}
