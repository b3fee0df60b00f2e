package server

import "net/http"

// MeResponse carries the verified user id, or null when the request bears
// no valid token.
type MeResponse struct {
	UserID *string `json:"userId"`
}

func handleMe(verifier UserVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := verifier.VerifyUserToken(r.Header)
		if err != nil {
			writeJSON(w, http.StatusOK, MeResponse{})
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{UserID: &userID})
	}
}
