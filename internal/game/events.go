package game

// Event is the closed set of payloads published to the broadcast channel.
// Each variant carries exactly the fields clients render for that event.
type Event interface {
	EventName() string
}

// PlayerJoined is published when an entry fee clears and a player lands in
// the lobby.
type PlayerJoined struct {
	Player      PlayerView `json:"player"`
	PlayerCount int        `json:"playerCount"`
	PrizePool   float64    `json:"prizePool"`
}

func (PlayerJoined) EventName() string { return "player-joined" }

// RoundStarted opens a pick window, either for round 1 out of the lobby or
// for a later round out of the results phase.
type RoundStarted struct {
	Round             int `json:"round"`
	Countdown         int `json:"countdown"`
	ActivePlayerCount int `json:"activePlayerCount"`
}

func (RoundStarted) EventName() string { return "round-started" }

// RoundFlipping announces the drawn outcome for the round.
type RoundFlipping struct {
	Result    Outcome `json:"result"`
	Countdown int     `json:"countdown"`
}

func (RoundFlipping) EventName() string { return "round-flipping" }

// RoundResults reports the elimination tally when more than one player
// survived the flip.
type RoundResults struct {
	EliminatedCount   int `json:"eliminatedCount"`
	ActivePlayerCount int `json:"activePlayerCount"`
	Countdown         int `json:"countdown"`
}

func (RoundResults) EventName() string { return "round-results" }

// GameOver ends the tournament. Winner is nil when the final flip
// eliminated everyone at once.
type GameOver struct {
	Winner *PlayerView `json:"winner"`
}

func (GameOver) EventName() string { return "game-over" }

// GameReset tells lobby subscribers their under-subscribed tournament was
// abandoned and replaced.
type GameReset struct{}

func (GameReset) EventName() string { return "game-reset" }
