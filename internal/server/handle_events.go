package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fliparcade/coinroyale/internal/whop"
)

// handleEvents streams the live tournament's broadcast events over SSE.
// EventSource cannot set headers, so the user token may arrive as a query
// parameter instead.
func handleEvents(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" {
			r.Header.Set(whop.UserTokenHeader, token)
		}
		if _, err := d.Verifier.VerifyUserToken(r.Header); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing user token")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		// Subscribe to the tournament that is live right now. When it ends
		// or resets, the client re-syncs via /api/game/state and reconnects.
		snap := d.Games.Snapshot(r.Context())

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch := d.Broker.Subscribe(snap.ID)
		defer d.Broker.Unsubscribe(snap.ID, ch)

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: game\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
