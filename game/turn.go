package game

import (
	"time"

	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/tiles"
)

// TurnType tags a committed turn record. A terminal turn's tag is the
// end-of-game reason itself.
type TurnType string

const (
	TurnMove            TurnType = "move"
	TurnPass            TurnType = "pass"
	TurnSwap            TurnType = "swap"
	TurnChallengeWon    TurnType = "challenge-won"
	TurnChallengeFailed TurnType = "challenge-failed"
	TurnTookBack        TurnType = "took-back"
)

// EndReason is why a game left the playing state. It doubles as the
// type tag of the terminal turn record.
type EndReason string

const (
	EndAllPassedTwice  EndReason = "all-players-passed-twice"
	EndChallengeFailed EndReason = "challenge-failed"
	EndTimedOut        EndReason = "timed-out"
	EndConfirmed       EndReason = "ended"
)

// StatePlaying is the single non-terminal lifecycle state. Any other
// state string is an EndReason.
const StatePlaying = "playing"

// A Turn is an immutable log record of one committed state transition.
// Turns are append-only; together they form the full audit trail of a
// game.
type Turn struct {
	Type      TurnType  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerKey string    `json:"playerKey"`
	// NextToGoKey is empty on terminal turns.
	NextToGoKey string `json:"nextToGoKey,omitempty"`
	Score       int    `json:"score,omitempty"`
	// EndScores replaces Score on terminal turns: the per-player score
	// deltas applied by the end-of-game finalizer.
	EndScores    map[string]int   `json:"endScores,omitempty"`
	Placements   []move.Placement `json:"placements,omitempty"`
	Replacements []tiles.Tile     `json:"replacements,omitempty"`
	Words        []move.Word      `json:"words,omitempty"`
}
