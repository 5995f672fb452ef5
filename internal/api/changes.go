package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/v0xg/pomgen/internal/store"
)

const (
	changeBuffer = 64
	writeTimeout = 5 * time.Second
)

var redacted = json.RawMessage(`"***"`)

// changes streams store change notifications as JSON text messages of the
// form {key: {oldValue, newValue}}. A client that falls behind is closed.
func (s *Server) changes(w http.ResponseWriter, r *http.Request) {
	ch := make(chan store.Changes, changeBuffer)
	overflow := make(chan struct{})
	var once sync.Once

	// Subscribe before the handshake so no write after it is missed
	unsubscribe := s.repo.KV().Subscribe(func(c store.Changes) {
		select {
		case ch <- redact(c):
		default:
			once.Do(func() { close(overflow) })
		}
	})
	defer unsubscribe()

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Debug("change feed accept failed", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("change feed close failed", "error", closeErr)
		}
	}()

	ctx := ws.CloseRead(r.Context())
	slog.Debug("change feed connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			return
		case <-overflow:
			ws.Close(websocket.StatusPolicyViolation, "client too slow")
			return
		case c := <-ch:
			if err := writeJSON(ctx, ws, c); err != nil {
				slog.Debug("change feed write failed", "error", err)
				return
			}
		}
	}
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}

// redact hides secret values from feed subscribers
func redact(c store.Changes) store.Changes {
	ch, ok := c[store.KeyAPIKey]
	if !ok {
		return c
	}
	out := make(store.Changes, len(c))
	for k, v := range c {
		out[k] = v
	}
	if ch.OldValue != nil {
		ch.OldValue = redacted
	}
	if ch.NewValue != nil {
		ch.NewValue = redacted
	}
	out[store.KeyAPIKey] = ch
	return out
}
