// Package ledger archives finished tournaments and payout attempts in
// SQLite, and holds the operator accounts for the admin endpoints. Live game
// state is never persisted; the ledger is audit-only.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fliparcade/coinroyale/internal/game"
	"github.com/fliparcade/coinroyale/internal/whop"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, db *sql.DB) (*Store, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS tournaments (
			id            TEXT PRIMARY KEY,
			winner_id     TEXT NOT NULL DEFAULT '',
			prize_pool    REAL NOT NULL,
			rounds        INTEGER NOT NULL,
			player_count  INTEGER NOT NULL,
			payout_status TEXT NOT NULL,
			finished_at   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payouts (
			id              TEXT PRIMARY KEY,
			tournament_id   TEXT NOT NULL,
			destination     TEXT NOT NULL,
			amount          REAL NOT NULL,
			idempotence_key TEXT NOT NULL,
			error           TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id            TEXT PRIMARY KEY,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			id       TEXT PRIMARY KEY,
			admin_id TEXT NOT NULL REFERENCES admins(id)
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// RecordResult archives a finished tournament. Implements the game engine's
// result recorder contract.
func (s *Store) RecordResult(ctx context.Context, res game.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, winner_id, prize_pool, rounds, player_count, payout_status, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payout_status = excluded.payout_status
	`, res.TournamentID, res.WinnerID, res.PrizePool, res.Rounds, res.PlayerCount,
		res.PayoutStatus, res.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting tournament result: %w", err)
	}
	return nil
}

// RecordPayout archives one transfer attempt. Implements the payout
// recorder contract.
func (s *Store) RecordPayout(ctx context.Context, attempt whop.PayoutAttempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payouts (id, tournament_id, destination, amount, idempotence_key, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), attempt.TournamentID, attempt.Destination, attempt.Amount,
		attempt.IdempotenceKey, attempt.Err, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting payout attempt: %w", err)
	}
	return nil
}

// TournamentRecord is one archived tournament.
type TournamentRecord struct {
	ID           string  `json:"id"`
	WinnerID     string  `json:"winnerId,omitempty"`
	PrizePool    float64 `json:"prizePool"`
	Rounds       int     `json:"rounds"`
	PlayerCount  int     `json:"playerCount"`
	PayoutStatus string  `json:"payoutStatus"`
	FinishedAt   string  `json:"finishedAt"`
}

// ListTournaments returns the archive, most recent first.
func (s *Store) ListTournaments(ctx context.Context) ([]TournamentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, winner_id, prize_pool, rounds, player_count, payout_status, finished_at
		FROM tournaments
		ORDER BY finished_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing tournaments: %w", err)
	}
	defer rows.Close()

	records := []TournamentRecord{}
	for rows.Next() {
		var rec TournamentRecord
		if err := rows.Scan(&rec.ID, &rec.WinnerID, &rec.PrizePool, &rec.Rounds,
			&rec.PlayerCount, &rec.PayoutStatus, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning tournament: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PayoutRecord is one archived transfer attempt.
type PayoutRecord struct {
	ID             string  `json:"id"`
	TournamentID   string  `json:"tournamentId"`
	Destination    string  `json:"destination"`
	Amount         float64 `json:"amount"`
	IdempotenceKey string  `json:"idempotenceKey"`
	Error          string  `json:"error,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// ListPayouts returns the transfer attempts for one tournament in the order
// they were made.
func (s *Store) ListPayouts(ctx context.Context, tournamentID string) ([]PayoutRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tournament_id, destination, amount, idempotence_key, error, created_at
		FROM payouts
		WHERE tournament_id = ?
		ORDER BY created_at
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	defer rows.Close()

	records := []PayoutRecord{}
	for rows.Next() {
		var rec PayoutRecord
		if err := rows.Scan(&rec.ID, &rec.TournamentID, &rec.Destination, &rec.Amount,
			&rec.IdempotenceKey, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payout: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
