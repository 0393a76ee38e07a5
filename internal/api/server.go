// Package api is the local HTTP bridge the presentation client talks to.
// Every bookkeeping and calculation operation is exposed as a JSON
// endpoint; notifications flow over a WebSocket.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rustyeddy/tradelog/auth"
	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/internal/events"
	"github.com/rustyeddy/tradelog/internal/logging"
	"github.com/rustyeddy/tradelog/ledger"
)

type Server struct {
	auth   *auth.Service
	tokens *auth.Tokens
	ledger *ledger.Service
	hub    *events.Hub
	log    logging.Logger
}

func New(a *auth.Service, tokens *auth.Tokens, l *ledger.Service, hub *events.Hub, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{auth: a, tokens: tokens, ledger: l, hub: hub, log: log}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		// The upgrade must not be wrapped in a timeout.
		r.With(s.authenticate(true)).Get("/events", s.serveEvents)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate(false))
			r.Use(middleware.Timeout(30 * time.Second))

			r.Put("/auth/password", s.changePassword)

			r.Get("/settings", s.getSettings)
			r.Patch("/settings", s.updateSettings)

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", s.listSessions)
				r.Post("/", s.createSession)
				r.Get("/active", s.activeSession)
				r.Post("/switch", s.switchSession)
				r.Get("/{id}", s.getSession)
				r.Patch("/{id}", s.updateSession)
				r.Get("/{id}/summary", s.sessionSummary)
				r.Get("/{id}/next-amount", s.suggestAmount)
			})

			r.Route("/trades", func(r chi.Router) {
				r.Get("/", s.listTrades)
				r.Post("/", s.appendTrade)
				r.Delete("/", s.clearTrades)
				r.Get("/{id}", s.getTrade)
				r.Patch("/{id}", s.adjustStake)
				r.Delete("/{id}", s.deleteTrade)
				r.Post("/{id}/settle", s.settleTrade)
			})

			r.Get("/export", s.export)

			r.Route("/calc", func(r chi.Router) {
				r.Post("/next-amount", s.calcNextAmount)
				r.Post("/trade-return", s.calcTradeReturn)
				r.Post("/position-size", s.calcPositionSize)
				r.Post("/profit-loss", s.calcProfitLoss)
			})

			r.Post("/events/new-trade", s.newTradeEntry)
			r.Get("/locale", s.getLocale)
			r.Put("/locale", s.setLocale)
		})
	})
	return r
}

// fail writes err with its mapped status. Server errors are logged and
// their detail withheld.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err,
			"request_id", middleware.GetReqID(r.Context()))
		failure(w, code, "internal error")
		return
	}
	failure(w, code, err.Error())
}

func pathID(r *http.Request) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || v <= 0 {
		return 0, common.Invalid("invalid id %q", chi.URLParam(r, "id"))
	}
	return v, nil
}

// querySession reads the optional session_id query parameter.
func querySession(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("session_id")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, common.Invalid("invalid session_id %q", raw)
	}
	return &v, nil
}
