package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hackgods/hospital-portal/internal/logging"
	"github.com/hackgods/hospital-portal/internal/notify"
)

const heartbeatInterval = 30 * time.Second

// streamAlerts feeds the notification widget over Server-Sent Events. Each
// connection owns its subscription and its own feed of the latest alerts.
// GET /notifications/stream
func (h *Handlers) streamAlerts(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(h.streams, cancel)
	defer stop()

	alerts, err := h.alerts.Subscribe(ctx)
	if err != nil {
		log.Error().Err(err).Msg("subscribe to alerts")
		writeError(w, http.StatusServiceUnavailable, "alerts_unavailable", "live notifications are unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	feed := notify.NewFeed()
	sendEvent(w, "connected", map[string]any{"timestamp": time.Now()})
	sendEvent(w, "alerts", feed.Items())
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("alert stream closed")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]any{"timestamp": time.Now()})
			flusher.Flush()
		case msg, ok := <-alerts:
			if !ok {
				return
			}
			feed.Push(msg)
			sendEvent(w, "alerts", feed.Items())
			flusher.Flush()
		}
	}
}

func sendEvent(w io.Writer, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
