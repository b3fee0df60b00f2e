package game

import (
	"fmt"
	"sort"
	"time"
)

// Phase is the tournament's current stage in its state machine.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePicking  Phase = "picking"
	PhaseFlipping Phase = "flipping"
	PhaseResults  Phase = "results"
	PhaseFinished Phase = "finished"
)

// Outcome is one side of the coin.
type Outcome string

const (
	Heads Outcome = "heads"
	Tails Outcome = "tails"
)

// ParseOutcome maps client input to an Outcome.
func ParseOutcome(s string) (Outcome, bool) {
	switch Outcome(s) {
	case Heads:
		return Heads, true
	case Tails:
		return Tails, true
	}
	return "", false
}

// Player is one entrant. Pick is empty until the player chooses a side for
// the current round.
type Player struct {
	ID        string
	Username  string
	AvatarURL string
	ReceiptID string
	Pick      Outcome
}

func (p *Player) view() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		Pick:      p.Pick,
	}
}

// Tournament is the authoritative state of one run of the game, from lobby
// to a single winner or abandonment. It is owned by the Manager and never
// leaves the package; callers see a Snapshot.
type Tournament struct {
	ID              string
	Phase           Phase
	StartTime       time.Time
	Players         map[string]*Player
	ActiveIDs       map[string]struct{}
	PrizePool       float64
	CurrentRound    int
	Countdown       int
	LastFlip        Outcome
	EliminatedCount int
}

// newTournament opens a lobby that closes at the top of the next clock hour.
func newTournament(now time.Time) *Tournament {
	start := now.Truncate(time.Hour).Add(time.Hour)
	return &Tournament{
		ID:        fmt.Sprintf("game-%d", start.UnixMilli()),
		Phase:     PhaseWaiting,
		StartTime: start,
		Players:   make(map[string]*Player),
		ActiveIDs: make(map[string]struct{}),
	}
}

// PlayerView is the transport representation of a player.
type PlayerView struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar"`
	Pick      Outcome `json:"pick,omitempty"`
}

// Snapshot is a read-only copy of the tournament handed to clients syncing
// state before they subscribe to the event stream.
type Snapshot struct {
	ID              string       `json:"id"`
	Phase           Phase        `json:"phase"`
	StartTime       time.Time    `json:"startTime"`
	Players         []PlayerView `json:"players"`
	ActivePlayerIDs []string     `json:"activePlayerIds"`
	PrizePool       float64      `json:"prizePool"`
	CurrentRound    int          `json:"currentRound"`
	Countdown       int          `json:"countdown"`
	LastFlipResult  Outcome      `json:"lastFlipResult,omitempty"`
	EliminatedCount int          `json:"eliminatedCount"`
}

func (t *Tournament) snapshot() Snapshot {
	players := make([]PlayerView, 0, len(t.Players))
	for _, p := range t.Players {
		players = append(players, p.view())
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	active := make([]string, 0, len(t.ActiveIDs))
	for id := range t.ActiveIDs {
		active = append(active, id)
	}
	sort.Strings(active)

	return Snapshot{
		ID:              t.ID,
		Phase:           t.Phase,
		StartTime:       t.StartTime,
		Players:         players,
		ActivePlayerIDs: active,
		PrizePool:       t.PrizePool,
		CurrentRound:    t.CurrentRound,
		Countdown:       t.Countdown,
		LastFlipResult:  t.LastFlip,
		EliminatedCount: t.EliminatedCount,
	}
}
