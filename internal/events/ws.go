package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The bridge listens on a local address for a desktop client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inbound is a message sent by the client.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Serve upgrades the request and streams userID's events until the client
// disconnects. Clients may send locale.changed messages.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64) error {
	events, cancel := h.Subscribe(userID)
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	h.log.Debug(ctx, "event client connected", "user_id", userID)

	go h.readLoop(ctx, conn, stop)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug(ctx, "event client disconnected", "user_id", userID)
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in inbound
		if err := json.Unmarshal(msg, &in); err != nil {
			h.log.Warn(ctx, "bad client message", "err", err)
			continue
		}
		switch in.Type {
		case TypeLocaleChanged:
			var lc LocaleChange
			if err := json.Unmarshal(in.Payload, &lc); err != nil {
				h.log.Warn(ctx, "bad locale payload", "err", err)
				continue
			}
			if _, err := h.SetLocale(ctx, lc.Locale); err != nil {
				h.log.Warn(ctx, "locale rejected", "err", err)
			}
		default:
			h.log.Debug(ctx, "ignored client message", "type", in.Type)
		}
	}
}
