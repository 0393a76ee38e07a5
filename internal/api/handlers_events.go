package api

import (
	"net/http"

	"github.com/rustyeddy/tradelog/internal/events"
)

type newTradeRequest struct {
	SessionID *int64 `json:"session_id"`
}

type localeRequest struct {
	Locale string `json:"locale"`
}

// GET /api/events
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.hub.Serve(w, r, uid); err != nil {
		s.log.Debug(r.Context(), "event stream closed", "user_id", uid, "err", err)
	}
}

// POST /api/events/new-trade
func (s *Server) newTradeEntry(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req newTradeRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	p := events.NewTrade{SessionID: req.SessionID}
	if req.SessionID != nil {
		if p.Amount, err = s.ledger.SuggestTradeAmount(r.Context(), uid, *req.SessionID); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	success(w, s.hub.NewTradeEntry(r.Context(), uid, p))
}

// GET /api/locale
func (s *Server) getLocale(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]any{"locale": s.hub.Locale(), "available": events.Locales})
}

// PUT /api/locale
func (s *Server) setLocale(w http.ResponseWriter, r *http.Request) {
	var req localeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ev, err := s.hub.SetLocale(r.Context(), req.Locale)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, ev)
}
