// Package events fans bridge notifications out to connected presentation
// clients over WebSocket.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/internal/logging"
	"github.com/rustyeddy/tradelog/pkg/id"
)

// Event types.
const (
	TypeNewTrade      = "trade.new"
	TypeLocaleChanged = "locale.changed"
)

// Locales the presentation layer ships strings for.
var Locales = []string{"en", "zh"}

// Event is one notification. A zero UserID reaches every subscriber.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	UserID  int64     `json:"-"`
	Payload any       `json:"payload,omitempty"`
	Time    time.Time `json:"time"`
}

// NewTrade asks the client to open its trade-entry flow.
type NewTrade struct {
	SessionID *int64  `json:"session_id,omitempty"`
	Amount    float64 `json:"suggested_amount,omitempty"`
}

type LocaleChange struct {
	Locale string `json:"locale"`
}

const subscriberBuffer = 16

type subscriber struct {
	userID int64
	ch     chan Event
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	locale string
	log    logging.Logger
	now    func() time.Time
}

func NewHub(locale string, log logging.Logger) *Hub {
	if log == nil {
		log = logging.Nop()
	}
	if !validLocale(locale) {
		locale = Locales[0]
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		locale: locale,
		log:    log,
		now:    time.Now,
	}
}

// Subscribe registers a listener for userID's events and the broadcast
// ones. cancel closes the channel.
func (h *Hub) Subscribe(userID int64) (events <-chan Event, cancel func()) {
	s := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.ch)
		})
	}
}

// Publish stamps ev and delivers it without blocking. A subscriber whose
// buffer is full misses the event.
func (h *Hub) Publish(ctx context.Context, ev Event) Event {
	if ev.ID == "" {
		ev.ID = id.New()
	}
	if ev.Time.IsZero() {
		ev.Time = h.now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if ev.UserID != 0 && s.userID != ev.UserID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			h.log.Warn(ctx, "event dropped", "type", ev.Type, "user_id", s.userID)
		}
	}
	return ev
}

// NewTradeEntry tells userID's clients to begin entering a trade.
func (h *Hub) NewTradeEntry(ctx context.Context, userID int64, p NewTrade) Event {
	return h.Publish(ctx, Event{Type: TypeNewTrade, UserID: userID, Payload: p})
}

func (h *Hub) Locale() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.locale
}

// SetLocale switches the language preference and notifies every client.
func (h *Hub) SetLocale(ctx context.Context, locale string) (Event, error) {
	if !validLocale(locale) {
		return Event{}, fmt.Errorf("locale %q: %w", locale, common.ErrInvalidArgument)
	}
	h.mu.Lock()
	h.locale = locale
	h.mu.Unlock()

	h.log.Info(ctx, "locale changed", "locale", locale)
	return h.Publish(ctx, Event{Type: TypeLocaleChanged, Payload: LocaleChange{Locale: locale}}), nil
}

func validLocale(l string) bool {
	for _, v := range Locales {
		if v == l {
			return true
		}
	}
	return false
}
