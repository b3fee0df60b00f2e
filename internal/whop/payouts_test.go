package whop

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	mu       sync.Mutex
	attempts []PayoutAttempt
}

func (r *recorderStub) RecordPayout(_ context.Context, a PayoutAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return nil
}

// payServer captures every pay_user call and fails the destinations listed
// in failFor.
func payServer(t *testing.T, failFor map[string]bool) (*httptest.Server, *[]PayUserRequest) {
	t.Helper()
	var calls []PayUserRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/payments/pay_user", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req PayUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls = append(calls, req)

		if failFor[req.DestinationID] {
			http.Error(w, `{"error":"insufficient funds"}`, http.StatusPaymentRequired)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newPayouts(srv *httptest.Server, rec PayoutRecorder) *Payouts {
	logger := slog.New(slog.DiscardHandler)
	client := NewClient(srv.URL, "test-key", "app_1", logger)
	return NewPayouts(client, rec, "biz_host", "ldgr_app", logger)
}

func TestIssuePayoutsSplitsPool(t *testing.T) {
	srv, calls := payServer(t, nil)
	rec := &recorderStub{}
	p := newPayouts(srv, rec)

	require.NoError(t, p.IssuePayouts(context.Background(), "game-1", "user_w", 10.0))

	require.Len(t, *calls, 2)

	winner := (*calls)[0]
	assert.Equal(t, 7.0, winner.Amount)
	assert.Equal(t, "usd", winner.Currency)
	assert.Equal(t, "user_w", winner.DestinationID)
	assert.Equal(t, "ldgr_app", winner.LedgerAccountID)
	assert.Equal(t, "user_to_user", winner.Reason)
	assert.Equal(t, "payout-winner-game-1", winner.IdempotenceKey)

	host := (*calls)[1]
	assert.Equal(t, 1.5, host.Amount)
	assert.Equal(t, "biz_host", host.DestinationID)
	assert.Equal(t, "creator_to_creator", host.Reason)
	assert.Equal(t, "payout-host-game-1", host.IdempotenceKey)

	require.Len(t, rec.attempts, 2)
	assert.Empty(t, rec.attempts[0].Err)
	assert.Empty(t, rec.attempts[1].Err)
	assert.Equal(t, "game-1", rec.attempts[0].TournamentID)
}

func TestIssuePayoutsWinnerFailureStopsBeforeHost(t *testing.T) {
	srv, calls := payServer(t, map[string]bool{"user_w": true})
	rec := &recorderStub{}
	p := newPayouts(srv, rec)

	err := p.IssuePayouts(context.Background(), "game-1", "user_w", 10.0)

	require.ErrorContains(t, err, "paying winner")
	assert.Len(t, *calls, 1, "host transfer must not be attempted after winner failure")

	require.Len(t, rec.attempts, 1)
	assert.Contains(t, rec.attempts[0].Err, "insufficient funds")
	assert.Equal(t, "payout-winner-game-1", rec.attempts[0].IdempotenceKey)
}

func TestIssuePayoutsHostFailureReported(t *testing.T) {
	srv, calls := payServer(t, map[string]bool{"biz_host": true})
	rec := &recorderStub{}
	p := newPayouts(srv, rec)

	err := p.IssuePayouts(context.Background(), "game-1", "user_w", 10.0)

	require.ErrorContains(t, err, "paying host")
	assert.Len(t, *calls, 2)

	require.Len(t, rec.attempts, 2)
	assert.Empty(t, rec.attempts[0].Err, "winner transfer succeeded")
	assert.NotEmpty(t, rec.attempts[1].Err)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 3.5, roundCents(5*winnerShare))
	assert.Equal(t, 0.75, roundCents(5*hostShare))
	assert.Equal(t, 11.67, roundCents(11.666666))
}
