package server

import (
	"net/http"
	"net/url"

	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/whop"
)

// handleCheckout opens a checkout session for the entry fee. The user's
// identity is attached as metadata so the payment webhook can seat them
// once the charge succeeds.
func handleCheckout(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := d.Verifier.VerifyUserToken(r.Header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing user token")
			return
		}

		snap := d.Games.Snapshot(r.Context())
		if snap.Phase != game.PhaseWaiting {
			writeError(w, http.StatusBadRequest,
				"Sorry, this game has already started. Please wait for the next one.")
			return
		}

		user, err := d.Whop.GetUser(r.Context(), userID)
		if err != nil {
			d.Logger.Error("user lookup failed", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError,
				"Failed to create checkout session. Please try again.")
			return
		}

		avatar := user.ProfilePicURL
		if avatar == "" {
			avatar = fallbackAvatar(user.Username)
		}

		sess, err := d.Whop.CreateCheckoutSession(r.Context(), whop.CheckoutRequest{
			PlanID: d.PlanID,
			Metadata: map[string]string{
				"userId":   userID,
				"username": user.Username,
				"avatar":   avatar,
			},
			RedirectURL: d.RedirectURL,
		})
		if err != nil {
			d.Logger.Error("creating checkout session failed", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError,
				"Failed to create checkout session. Please try again.")
			return
		}

		writeJSON(w, http.StatusOK, sess)
	}
}

func fallbackAvatar(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username)
}
