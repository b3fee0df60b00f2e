package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Coin Flip Royale API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(d.Logger, d.DB))

	// Player routes — authenticated by the platform user token.
	r.Route("/api", func(r chi.Router) {
		r.Get("/me", handleMe(d.Verifier))
		r.Get("/game/state", handleGameState(d))
		r.Post("/game/checkout", handleCheckout(d))
		r.Post("/game/pick", handlePick(d))
		r.Get("/game/events", handleEvents(d))
	})

	// Payment webhook — authenticated by HMAC signature, not a user token.
	r.Post("/api/webhooks/whop", handleWebhook(d))

	// Operator dashboard.
	r.Post("/api/admin/login", handleAdminLogin(d.Ledger))
	r.Post("/api/admin/logout", handleAdminLogout(d.Ledger))
	r.Get("/api/admin/me", handleAdminMe(d.Ledger))
	r.Route("/api/admin/tournaments", func(r chi.Router) {
		r.Use(adminAuthMiddleware(d.Ledger))
		r.Get("/", handleAdminListTournaments(d))
		r.Get("/{id}/payouts", handleAdminListPayouts(d))
	})
}
