package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/ledger"
	"github.com/fliparcade/coinroyale/internal/whop"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Coin Flip Royale API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Coin Flip Royale elimination game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the verified user id from the platform user token, or null.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMe)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the live tournament snapshot. Requires the platform user token header.")
	getState.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/checkout
	postCheckout, _ := r.NewOperationContext(http.MethodPost, "/api/game/checkout")
	postCheckout.SetSummary("Create entry checkout")
	postCheckout.SetDescription("Creates a checkout session for the entry fee while the lobby is open.")
	postCheckout.AddRespStructure(whop.CheckoutSession{}, openapi.WithHTTPStatus(http.StatusOK))
	postCheckout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postCheckout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postCheckout)

	// POST /api/game/pick
	postPick, _ := r.NewOperationContext(http.MethodPost, "/api/game/pick")
	postPick.SetSummary("Submit pick")
	postPick.SetDescription("Records heads or tails for the current round. Re-picking before the flip overwrites.")
	postPick.AddReqStructure(PickRequest{})
	postPick.AddRespStructure(map[string]bool{}, openapi.WithHTTPStatus(http.StatusOK))
	postPick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postPick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postPick)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of tournament lifecycle events. Pass the user token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/webhooks/whop
	postWebhook, _ := r.NewOperationContext(http.MethodPost, "/api/webhooks/whop")
	postWebhook.SetSummary("Payment webhook")
	postWebhook.SetDescription("Consumes payment.succeeded events; a cleared entry fee seats the player. HMAC-signed.")
	postWebhook.AddRespStructure(map[string]string{}, openapi.WithHTTPStatus(http.StatusOK))
	postWebhook.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postWebhook)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getAdminMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getAdminMe.SetSummary("Current admin")
	getAdminMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getAdminMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getAdminMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getAdminMe)

	// GET /api/admin/tournaments
	listTournaments, _ := r.NewOperationContext(http.MethodGet, "/api/admin/tournaments")
	listTournaments.SetSummary("List finished tournaments")
	listTournaments.SetDescription("Returns the tournament archive, most recent first. Requires admin_session cookie.")
	listTournaments.AddRespStructure([]ledger.TournamentRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	listTournaments.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listTournaments)

	// GET /api/admin/tournaments/{id}/payouts
	listPayouts, _ := r.NewOperationContext(http.MethodGet, "/api/admin/tournaments/{id}/payouts")
	listPayouts.SetSummary("List payout attempts")
	listPayouts.SetDescription("Returns every transfer attempt for a tournament, including failures. Requires admin_session cookie.")
	listPayouts.AddRespStructure([]ledger.PayoutRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	listPayouts.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listPayouts)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
