package whop

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/users/user_42", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"user_42","username":"alice","profile_pic_url":"https://img/a.png"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "app_1", slog.New(slog.DiscardHandler))
	u, err := c.GetUser(context.Background(), "user_42")
	require.NoError(t, err)
	assert.Equal(t, User{ID: "user_42", Username: "alice", ProfilePicURL: "https://img/a.png"}, u)
}

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/checkout_sessions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plan_5usd", req.PlanID)
		assert.Equal(t, "user_42", req.Metadata["userId"])

		w.Write([]byte(`{"id":"ch_1","plan_id":"plan_5usd","purchase_url":"https://whop.com/checkout/ch_1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "app_1", slog.New(slog.DiscardHandler))
	sess, err := c.CreateCheckoutSession(context.Background(), CheckoutRequest{
		PlanID:   "plan_5usd",
		Metadata: map[string]string{"userId": "user_42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_1", sess.ID)
	assert.Equal(t, "https://whop.com/checkout/ch_1", sess.PurchaseURL)
}

func TestErrorStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"plan not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "app_1", slog.New(slog.DiscardHandler))
	_, err := c.CreateCheckoutSession(context.Background(), CheckoutRequest{PlanID: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "plan not found")
}
