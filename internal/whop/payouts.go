package whop

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Prize split: 70% to the winner, 15% to the hosting community, the
// remaining 15% stays on the app ledger.
const (
	winnerShare = 0.70
	hostShare   = 0.15
)

// PayoutAttempt is one transfer attempt, recorded whether or not it
// succeeded so failed payouts can be replayed manually with the same
// idempotence key.
type PayoutAttempt struct {
	TournamentID   string
	Destination    string
	Amount         float64
	IdempotenceKey string
	Err            string
}

// PayoutRecorder archives payout attempts.
type PayoutRecorder interface {
	RecordPayout(ctx context.Context, attempt PayoutAttempt) error
}

// Payouts distributes the prize pool when a tournament completes. It
// implements the game engine's payout contract.
type Payouts struct {
	client          *Client
	recorder        PayoutRecorder
	hostCompanyID   string
	ledgerAccountID string
	logger          *slog.Logger
}

func NewPayouts(client *Client, recorder PayoutRecorder, hostCompanyID, ledgerAccountID string, logger *slog.Logger) *Payouts {
	return &Payouts{
		client:          client,
		recorder:        recorder,
		hostCompanyID:   hostCompanyID,
		ledgerAccountID: ledgerAccountID,
		logger:          logger,
	}
}

// IssuePayouts pays the winner, then the host. Idempotence keys are derived
// from the tournament id, so invoking this again after a partial failure
// cannot double-pay.
func (p *Payouts) IssuePayouts(ctx context.Context, tournamentID, winnerID string, prizePool float64) error {
	if err := p.pay(ctx, tournamentID, winnerID,
		roundCents(prizePool*winnerShare),
		"user_to_user",
		fmt.Sprintf("Coin Flip Royale winner - game %s", tournamentID),
		"payout-winner-"+tournamentID,
	); err != nil {
		return fmt.Errorf("paying winner: %w", err)
	}

	if err := p.pay(ctx, tournamentID, p.hostCompanyID,
		roundCents(prizePool*hostShare),
		"creator_to_creator",
		fmt.Sprintf("Coin Flip Royale host share - game %s", tournamentID),
		"payout-host-"+tournamentID,
	); err != nil {
		return fmt.Errorf("paying host: %w", err)
	}

	return nil
}

func (p *Payouts) pay(ctx context.Context, tournamentID, destination string, amount float64, reason, notes, key string) error {
	err := p.client.PayUser(ctx, PayUserRequest{
		Amount:          amount,
		Currency:        "usd",
		DestinationID:   destination,
		LedgerAccountID: p.ledgerAccountID,
		Notes:           notes,
		Reason:          reason,
		IdempotenceKey:  key,
	})

	attempt := PayoutAttempt{
		TournamentID:   tournamentID,
		Destination:    destination,
		Amount:         amount,
		IdempotenceKey: key,
	}
	if err != nil {
		attempt.Err = err.Error()
	}
	if recErr := p.recorder.RecordPayout(ctx, attempt); recErr != nil {
		p.logger.Error("recording payout attempt failed",
			"tournament", tournamentID, "destination", destination, "error", recErr)
	}

	return err
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
