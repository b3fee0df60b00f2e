package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Broadcaster fans out lifecycle events to clients subscribed to a
// tournament's channel.
type Broadcaster interface {
	Publish(tournamentID string, event Event)
}

// PayoutSink distributes the prize pool when a tournament completes. It must
// be idempotent per tournament id.
type PayoutSink interface {
	IssuePayouts(ctx context.Context, tournamentID, winnerID string, prizePool float64) error
}

// Notifier sends a best-effort push notification to the community.
type Notifier interface {
	SendPush(ctx context.Context, title, message string) error
}

// ResultRecorder archives a finished tournament for audit.
type ResultRecorder interface {
	RecordResult(ctx context.Context, res Result) error
}

// Payout statuses recorded with a finished tournament.
const (
	PayoutPaid     = "paid"
	PayoutFailed   = "failed"
	PayoutRetained = "retained"
)

// Result is the archive record of one finished tournament. WinnerID is empty
// when the final flip eliminated everyone simultaneously; the pool is then
// retained rather than carried over, since the pool is frozen once the lobby
// closes.
type Result struct {
	TournamentID string
	WinnerID     string
	PrizePool    float64
	Rounds       int
	PlayerCount  int
	FinishedAt   time.Time
	PayoutStatus string
}

// Config holds the tunable parameters of the game.
type Config struct {
	EntryFee       float64
	MinPlayers     int
	PickSeconds    int
	FlipSeconds    int
	ResultsSeconds int
	Retention      time.Duration
}

// DefaultConfig returns the production rules: $5 entry, 10 s pick window,
// 4 s reveal, 4 s results, finished games retained for 10 minutes.
func DefaultConfig() Config {
	return Config{
		EntryFee:       5,
		MinPlayers:     2,
		PickSeconds:    10,
		FlipSeconds:    4,
		ResultsSeconds: 4,
		Retention:      10 * time.Minute,
	}
}

// Manager owns the single live tournament. Every mutation, whether from an
// HTTP handler or the tick driver, is serialized behind its mutex so the
// aggregate's invariants hold without re-entrant advancement.
type Manager struct {
	cfg     Config
	logger  *slog.Logger
	events  Broadcaster
	payouts PayoutSink
	push    Notifier
	results ResultRecorder
	clock   quartz.Clock
	flip    func() Outcome

	mu      sync.Mutex
	current *Tournament
}

// Option overrides a Manager dependency, used by tests to control time and
// the coin.
type Option func(*Manager)

func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

func WithFlip(flip func() Outcome) Option {
	return func(m *Manager) { m.flip = flip }
}

func NewManager(cfg Config, logger *slog.Logger, events Broadcaster, payouts PayoutSink, push Notifier, results ResultRecorder, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		logger:  logger,
		events:  events,
		payouts: payouts,
		push:    push,
		results: results,
		clock:   quartz.NewReal(),
		flip:    fairCoin,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func fairCoin() Outcome {
	if rand.IntN(2) == 0 {
		return Heads
	}
	return Tails
}

// Snapshot returns the live tournament's state, lazily creating a fresh
// lobby when none exists or the previous lobby's window elapsed without the
// tick driver having advanced it.
func (m *Manager) Snapshot(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked(ctx).snapshot()
}

// currentLocked returns the live tournament, replacing a missing or stale
// one. Replacing a previous instance fires a best-effort "starting soon"
// push first.
func (m *Manager) currentLocked(ctx context.Context) *Tournament {
	now := m.clock.Now()
	if m.current != nil && (m.current.Phase != PhaseWaiting || !now.After(m.current.StartTime)) {
		return m.current
	}
	if m.current != nil {
		if err := m.push.SendPush(ctx, "Coin Flip Royale starting!", "A new game is starting now. Join in!"); err != nil {
			m.logger.Error("push notification failed", "error", err)
		}
	}
	m.current = newTournament(now)
	m.logger.Info("opened new lobby", "tournament", m.current.ID, "startTime", m.current.StartTime)
	return m.current
}

// Entry is the payment-succeeded tuple delivered by the platform webhook.
type Entry struct {
	UserID    string
	Username  string
	AvatarURL string
	ReceiptID string
}

// AddPlayer admits a paid-up player into the open lobby. It reports false
// when no lobby is accepting entries, or when the player already holds a
// seat; the caller owes the player a refund in either case.
func (m *Manager) AddPlayer(e Entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.current
	if t == nil || t.Phase != PhaseWaiting {
		return false
	}
	if _, dup := t.Players[e.UserID]; dup {
		return false
	}

	p := &Player{
		ID:        e.UserID,
		Username:  e.Username,
		AvatarURL: e.AvatarURL,
		ReceiptID: e.ReceiptID,
	}
	t.Players[p.ID] = p
	t.ActiveIDs[p.ID] = struct{}{}
	t.PrizePool += m.cfg.EntryFee

	m.events.Publish(t.ID, PlayerJoined{
		Player:      p.view(),
		PlayerCount: len(t.Players),
		PrizePool:   t.PrizePool,
	})
	return true
}

// RecordPick stores a player's side for the current round. Re-picking before
// the flip resolves overwrites the previous choice; last write wins. It
// reports false when the pick window is closed or the player is not active.
func (m *Manager) RecordPick(userID string, pick Outcome) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.current
	if t == nil || t.Phase != PhasePicking {
		return false
	}
	if _, active := t.ActiveIDs[userID]; !active {
		return false
	}
	t.Players[userID].Pick = pick
	return true
}
