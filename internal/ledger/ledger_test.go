package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fliparcade/coinroyale/internal/database"
	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/whop"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := New(ctx, db)
	require.NoError(t, err)
	return store
}

func TestRecordAndListTournaments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := game.Result{
		TournamentID: "game-1",
		WinnerID:     "user_a",
		PrizePool:    25,
		Rounds:       3,
		PlayerCount:  5,
		FinishedAt:   time.Date(2025, 6, 1, 18, 2, 0, 0, time.UTC),
		PayoutStatus: game.PayoutPaid,
	}
	second := game.Result{
		TournamentID: "game-2",
		PrizePool:    10,
		Rounds:       1,
		PlayerCount:  2,
		FinishedAt:   time.Date(2025, 6, 1, 19, 1, 0, 0, time.UTC),
		PayoutStatus: game.PayoutRetained,
	}
	require.NoError(t, store.RecordResult(ctx, first))
	require.NoError(t, store.RecordResult(ctx, second))

	records, err := store.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Most recent first.
	assert.Equal(t, "game-2", records[0].ID)
	assert.Empty(t, records[0].WinnerID)
	assert.Equal(t, game.PayoutRetained, records[0].PayoutStatus)

	assert.Equal(t, "game-1", records[1].ID)
	assert.Equal(t, "user_a", records[1].WinnerID)
	assert.Equal(t, 25.0, records[1].PrizePool)
	assert.Equal(t, 3, records[1].Rounds)
	assert.Equal(t, 5, records[1].PlayerCount)
}

func TestRecordResultUpsertsStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res := game.Result{
		TournamentID: "game-1",
		WinnerID:     "user_a",
		PrizePool:    10,
		Rounds:       1,
		PlayerCount:  2,
		FinishedAt:   time.Now(),
		PayoutStatus: game.PayoutFailed,
	}
	require.NoError(t, store.RecordResult(ctx, res))

	// Manual replay of the payout flips the status without duplicating the row.
	res.PayoutStatus = game.PayoutPaid
	require.NoError(t, store.RecordResult(ctx, res))

	records, err := store.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, game.PayoutPaid, records[0].PayoutStatus)
}

func TestRecordAndListPayouts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordPayout(ctx, whop.PayoutAttempt{
		TournamentID:   "game-1",
		Destination:    "user_a",
		Amount:         7,
		IdempotenceKey: "payout-winner-game-1",
	}))
	require.NoError(t, store.RecordPayout(ctx, whop.PayoutAttempt{
		TournamentID:   "game-1",
		Destination:    "biz_host",
		Amount:         1.5,
		IdempotenceKey: "payout-host-game-1",
		Err:            "insufficient funds",
	}))
	require.NoError(t, store.RecordPayout(ctx, whop.PayoutAttempt{
		TournamentID:   "game-9",
		Destination:    "user_z",
		Amount:         3.5,
		IdempotenceKey: "payout-winner-game-9",
	}))

	records, err := store.ListPayouts(ctx, "game-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "user_a", records[0].Destination)
	assert.Equal(t, 7.0, records[0].Amount)
	assert.Empty(t, records[0].Error)
	assert.NotEmpty(t, records[0].ID)

	assert.Equal(t, "biz_host", records[1].Destination)
	assert.Equal(t, "insufficient funds", records[1].Error)

	empty, err := store.ListPayouts(ctx, "game-404")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAdminAccountAndSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureAdmin(ctx, "ops@example.com", "hunter2"))

	adminID, hash, err := store.AdminByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	// Re-seeding with a new password keeps the account and rotates the hash.
	require.NoError(t, store.EnsureAdmin(ctx, "ops@example.com", "correct horse"))
	sameID, hash2, err := store.AdminByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, adminID, sameID)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash2), []byte("correct horse")))

	_, _, err = store.AdminByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	sessionID, err := store.CreateAdminSession(ctx, adminID)
	require.NoError(t, err)

	sess, err := store.AdminFromSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, AdminSession{AdminID: adminID, Email: "ops@example.com"}, sess)

	require.NoError(t, store.DeleteAdminSession(ctx, sessionID))
	_, err = store.AdminFromSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}
