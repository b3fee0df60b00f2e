package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/whop"
)

// handleWebhook consumes the platform's payment webhook. A successful entry
// fee seats the player in the lobby; a payment that lands after the lobby
// closed is flagged for an out-of-band refund.
func handleWebhook(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read body")
			return
		}
		r.Body.Close()

		if !whop.ValidSignature(d.WebhookSecret, body, r.Header.Get(whop.SignatureHeader)) {
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}

		var ev whop.WebhookEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		if ev.Type != whop.EventPaymentSucceeded {
			writeJSON(w, http.StatusOK, map[string]string{"message": "ignored"})
			return
		}

		meta := ev.Data.Object.Metadata
		userID, username := meta["userId"], meta["username"]
		if userID == "" || username == "" {
			writeError(w, http.StatusBadRequest, "missing user metadata")
			return
		}

		avatar := meta["avatar"]
		if avatar == "" {
			avatar = fallbackAvatar(username)
		}

		entry := game.Entry{
			UserID:    userID,
			Username:  username,
			AvatarURL: avatar,
			ReceiptID: ev.Data.Object.ID,
		}
		if !d.Games.AddPlayer(entry) {
			// The charge already went through; reversing it is the payment
			// provider's job, not the game's.
			d.Logger.Warn("player paid after lobby closed, refund needed",
				"user", userID, "receipt", entry.ReceiptID)
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "webhook processed"})
	}
}
