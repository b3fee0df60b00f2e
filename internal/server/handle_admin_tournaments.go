package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleAdminListTournaments(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := d.Ledger.ListTournaments(r.Context())
		if err != nil {
			d.Logger.Error("listing tournaments failed", "admin", adminFrom(r).Email, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func handleAdminListPayouts(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		records, err := d.Ledger.ListPayouts(r.Context(), id)
		if err != nil {
			d.Logger.Error("listing payouts failed", "admin", adminFrom(r).Email, "tournament", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}
