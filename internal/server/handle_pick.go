package server

import (
	"net/http"

	"github.com/fliparcade/coinroyale/internal/game"
)

// PickRequest is the request body for POST /api/game/pick.
type PickRequest struct {
	Pick string `json:"pick"`
}

func handlePick(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := d.Verifier.VerifyUserToken(r.Header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing user token")
			return
		}

		var req PickRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pick, ok := game.ParseOutcome(req.Pick)
		if !ok {
			writeError(w, http.StatusBadRequest, "pick must be heads or tails")
			return
		}

		if !d.Games.RecordPick(userID, pick) {
			writeError(w, http.StatusBadRequest,
				"Failed to record choice. It might be too late.")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
