// Package ledger keeps the session and trade books: numbering, the running
// balance chain, settlement and its cascade, and per-session summaries.
//
// Every mutation runs in a single store transaction and is serialized per
// balance chain, so concurrent settlements of the same session leave the
// chain consistent.
package ledger

import (
	"context"
	"time"

	"github.com/rustyeddy/tradelog/internal/logging"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/risk"
)

// Store is the persistence the service needs. *journal.Store satisfies it.
type Store interface {
	journal.Repository
	InTx(ctx context.Context, fn func(repo journal.Repository) error) error
}

type Service struct {
	store  Store
	log    logging.Logger
	now    func() time.Time
	payout float64
	locks  *keyedMutex
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the source of session dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultPayout sets the payout used for trades without a session.
func WithDefaultPayout(pct float64) Option {
	return func(s *Service) {
		if pct > 0 {
			s.payout = pct
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		log:    logging.Nop(),
		now:    time.Now,
		payout: risk.DefaultPayoutPercent,
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
