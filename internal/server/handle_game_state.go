package server

import "net/http"

// handleGameState returns the live tournament snapshot. Newly-connecting
// clients call this once to synchronize before subscribing to the event
// stream.
func handleGameState(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Verifier.VerifyUserToken(r.Header); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing user token")
			return
		}
		writeJSON(w, http.StatusOK, d.Games.Snapshot(r.Context()))
	}
}
