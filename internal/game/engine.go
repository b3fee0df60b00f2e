package game

import "context"

// Advance moves the live tournament through its state machine. The tick
// driver invokes it once per second; it is a no-op when no tournament is
// live. Countdown phases decrement first and transition at or below zero.
func (m *Manager) Advance(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.current
	if t == nil {
		return
	}

	switch t.Phase {
	case PhaseWaiting:
		m.advanceWaiting(t)
	case PhasePicking:
		t.Countdown--
		if t.Countdown <= 0 {
			m.resolveFlip(t)
		}
	case PhaseFlipping:
		t.Countdown--
		if t.Countdown <= 0 {
			m.advanceFlipping(ctx, t)
		}
	case PhaseResults:
		t.Countdown--
		if t.Countdown <= 0 {
			m.startRound(t, t.CurrentRound+1)
		}
	}
}

// advanceWaiting closes the lobby once the scheduled start arrives. An
// under-subscribed lobby is abandoned and replaced without ever starting.
func (m *Manager) advanceWaiting(t *Tournament) {
	now := m.clock.Now()
	if now.Before(t.StartTime) {
		return
	}

	if len(t.Players) < m.cfg.MinPlayers {
		m.logger.Info("not enough players, resetting lobby",
			"tournament", t.ID, "players", len(t.Players))
		m.current = newTournament(now)
		m.events.Publish(t.ID, GameReset{})
		return
	}

	m.startRound(t, 1)
}

// startRound opens a pick window. Every player's previous pick is cleared so
// survivors start the round undecided.
func (m *Manager) startRound(t *Tournament, round int) {
	t.Phase = PhasePicking
	t.CurrentRound = round
	t.Countdown = m.cfg.PickSeconds
	for _, p := range t.Players {
		p.Pick = ""
	}
	m.events.Publish(t.ID, RoundStarted{
		Round:             round,
		Countdown:         t.Countdown,
		ActivePlayerCount: len(t.ActiveIDs),
	})
}

// resolveFlip draws the outcome and eliminates every active player whose
// pick mismatches it. A player who never picked is eliminated the same as a
// wrong pick.
func (m *Manager) resolveFlip(t *Tournament) {
	result := m.flip()
	t.Phase = PhaseFlipping
	t.LastFlip = result

	// A sole remaining player wins regardless of the draw; only a field of
	// two or more can lose to the coin.
	eliminated := 0
	if len(t.ActiveIDs) > 1 {
		for id := range t.ActiveIDs {
			if t.Players[id].Pick != result {
				delete(t.ActiveIDs, id)
				eliminated++
			}
		}
	}
	t.EliminatedCount = eliminated
	t.Countdown = m.cfg.FlipSeconds

	m.events.Publish(t.ID, RoundFlipping{Result: result, Countdown: t.Countdown})
}

// advanceFlipping either finishes the tournament (one or zero survivors) or
// moves to the results phase for another round.
func (m *Manager) advanceFlipping(ctx context.Context, t *Tournament) {
	if len(t.ActiveIDs) > 1 {
		t.Phase = PhaseResults
		t.Countdown = m.cfg.ResultsSeconds
		m.events.Publish(t.ID, RoundResults{
			EliminatedCount:   t.EliminatedCount,
			ActivePlayerCount: len(t.ActiveIDs),
			Countdown:         t.Countdown,
		})
		return
	}

	t.Phase = PhaseFinished

	var winner *Player
	for id := range t.ActiveIDs {
		winner = t.Players[id]
	}

	res := Result{
		TournamentID: t.ID,
		PrizePool:    t.PrizePool,
		Rounds:       t.CurrentRound,
		PlayerCount:  len(t.Players),
		FinishedAt:   m.clock.Now(),
		PayoutStatus: PayoutRetained,
	}

	var winnerView *PlayerView
	if winner != nil {
		res.WinnerID = winner.ID
		res.PayoutStatus = PayoutPaid
		if err := m.payouts.IssuePayouts(ctx, t.ID, winner.ID, t.PrizePool); err != nil {
			// Liveness over strictness: the game still finishes, the failed
			// attempt stays in the ledger for manual replay.
			m.logger.Error("payout failed",
				"tournament", t.ID, "winner", winner.ID, "prizePool", t.PrizePool, "error", err)
			res.PayoutStatus = PayoutFailed
		}
		v := winner.view()
		winnerView = &v
	} else {
		m.logger.Info("no survivors in final flip, pool retained",
			"tournament", t.ID, "prizePool", t.PrizePool)
	}

	m.events.Publish(t.ID, GameOver{Winner: winnerView})

	if err := m.results.RecordResult(ctx, res); err != nil {
		m.logger.Error("recording result failed", "tournament", t.ID, "error", err)
	}

	m.retireAfter(t.ID)
}

// retireAfter drops the finished tournament once the retention window
// passes, so the next query lazily opens the next lobby. The id check keeps
// a late timer from clobbering a successor.
func (m *Manager) retireAfter(id string) {
	m.clock.AfterFunc(m.cfg.Retention, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.current != nil && m.current.ID == id {
			m.current = nil
		}
	})
}
