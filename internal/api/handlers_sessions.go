package api

import (
	"net/http"

	"github.com/rustyeddy/tradelog/journal"
)

type createSessionRequest struct {
	InitialCapital float64 `json:"initial_capital"`
	Currency       string  `json:"currency"`
}

type switchRequest struct {
	SessionNumber int `json:"session_number"`
}

// GET /api/sessions
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.ledger.Sessions(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []journal.Session{}
	}
	success(w, list)
}

// POST /api/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.ledger.CreateSession(r.Context(), uid, req.InitialCapital, req.Currency)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	created(w, sess)
}

// GET /api/sessions/active
func (s *Server) activeSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.ledger.ActiveSession(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, sess)
}

// POST /api/sessions/switch
func (s *Server) switchSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req switchRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.ledger.SwitchActiveSession(r.Context(), uid, req.SessionNumber)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, sess)
}

// GET /api/sessions/{id}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.ledger.Session(r.Context(), uid, sid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, sess)
}

// PATCH /api/sessions/{id}
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p journal.SessionPatch
	if err := decode(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.ledger.UpdateSession(r.Context(), uid, sid, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, sess)
}

// GET /api/sessions/{id}/summary
func (s *Server) sessionSummary(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := s.ledger.Summary(r.Context(), uid, sid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, sum)
}

// GET /api/sessions/{id}/next-amount
func (s *Server) suggestAmount(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sid, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	amt, err := s.ledger.SuggestTradeAmount(r.Context(), uid, sid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, map[string]float64{"amount": amt})
}
