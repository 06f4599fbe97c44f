package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Challenge disputes the previous move on behalf of the current player.
// With no dictionary configured the challenge always succeeds. A
// successful challenge reverses the move (a challenge-won take-back).
// A failed one costs the challenger their own turn, unless the
// challenged move emptied the mover's rack, in which case the game ends
// immediately with reason challenge-failed.
func (g *Game) Challenge(ctx context.Context, challengerKey string) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if g.previousMove == nil {
		return nil, fmt.Errorf("%w to challenge", ErrNoPreviousMove)
	}
	challenger, err := g.playerLocked(challengerKey)
	if err != nil {
		return nil, err
	}
	if challenger.Key != g.whoseTurnKey {
		return nil, fmt.Errorf("%w: only the player on turn may challenge", ErrNotYourTurn)
	}
	if !challenger.CanChallenge {
		return nil, fmt.Errorf("%w: %s", ErrCannotChallenge, challenger.Name)
	}
	prev := g.previousMove
	g.stopTimerLocked()

	if !g.wordsAllValid(ctx, prev.WordStrings()) {
		log.Info().Str("game", g.key).Str("challenger", challenger.Name).
			Msg("challenge succeeded")
		return g.takeBackLocked(ctx, TurnChallengeWon)
	}

	log.Info().Str("game", g.key).Str("challenger", challenger.Name).
		Msg("challenge failed")
	if len(prev.Replacements) == 0 {
		// The challenged player emptied their rack; the failed
		// challenge seals the game.
		return g.confirmGameOverLocked(ctx, EndChallengeFailed, challenger.Key)
	}
	// The challenger loses their own turn as the penalty.
	return g.passLocked(ctx, challenger, TurnChallengeFailed)
}

// wordsAllValid consults the oracle for every word. No oracle, or an
// unreachable one, means the words cannot be verified and the challenge
// succeeds by default. It reads only the oracle, never game state.
func (g *Game) wordsAllValid(ctx context.Context, words []string) bool {
	if g.oracle == nil {
		return false
	}
	for _, w := range words {
		ok, err := g.oracle.HasWord(ctx, w)
		if err != nil {
			log.Warn().Err(err).Str("word", w).Msg("dictionary unreachable during challenge")
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// TakeBack reverses the previous move. For a voluntary take-back
// (took-back) the requester must be the player who made that move, and
// their turn restarts from the clock snapshot captured when they moved.
// For a won challenge (challenge-won) the requester must be the
// challenger, the player on turn, whose clock restarts at the full
// allotment.
func (g *Game) TakeBack(ctx context.Context, playerKey string, ttype TurnType) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if g.previousMove == nil {
		return nil, fmt.Errorf("%w to take back", ErrNoPreviousMove)
	}
	switch ttype {
	case TurnTookBack:
		if !g.cfg.AllowTakeBack {
			return nil, ErrTakeBackDisabled
		}
		if playerKey != g.previousMove.PlayerKey {
			return nil, fmt.Errorf("%w: only the previous mover may take back", ErrNotYourTurn)
		}
	case TurnChallengeWon:
		if playerKey != g.whoseTurnKey {
			return nil, fmt.Errorf("%w: only the player on turn may claim a challenge", ErrNotYourTurn)
		}
	default:
		return nil, fmt.Errorf("%q is not a take-back type", ttype)
	}
	g.stopTimerLocked()
	return g.takeBackLocked(ctx, ttype)
}

// takeBackLocked reverses the previous move exactly: replacements go
// from the mover's rack back to the bag, placed tiles come off the
// board back onto the rack, and the score comes off. Tile conservation
// holds throughout.
func (g *Game) takeBackLocked(ctx context.Context, ttype TurnType) (*Turn, error) {
	prev := g.previousMove
	mover, err := g.playerLocked(prev.PlayerKey)
	if err != nil {
		log.Error().Err(err).Str("game", g.key).Msg("previous mover vanished")
		return nil, err
	}
	if !mover.Rack.HasAll(prev.Replacements) {
		err := fmt.Errorf("replacement tiles missing from %s's rack", mover.Name)
		log.Error().Err(err).Str("game", g.key).Msg("cannot reverse move")
		return nil, err
	}
	for _, t := range prev.Replacements {
		if err := mover.Rack.Remove(t); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack desync during take-back")
			return nil, err
		}
	}
	g.bag.PutBack(prev.Replacements)
	for _, pl := range prev.Placements {
		t, err := g.board.Remove(pl.Row, pl.Col)
		if err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("board desync during take-back")
			return nil, err
		}
		if err := mover.Rack.Add(t.AsUnplayed()); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack overflow during take-back")
			return nil, err
		}
	}
	mover.Score -= prev.Score
	g.previousMove = nil

	var next *Player
	if ttype == TurnTookBack {
		// The mover's turn restarts with the clock they had when they
		// made the original move; a take-back grants no extra time.
		g.whoseTurnKey = mover.Key
		mover.TimeRemaining = time.Duration(prev.MillisRemaining) * time.Millisecond
		next = mover
	} else {
		// Challenge won: the challenger keeps the turn with a fresh
		// clock.
		next = g.curPlayerLocked()
		next.TimeRemaining = g.cfg.TurnTimeout
	}
	g.startTimerLocked()

	t := &Turn{
		Type:         ttype,
		PlayerKey:    mover.Key,
		NextToGoKey:  next.Key,
		Score:        -prev.Score,
		Placements:   prev.Placements,
		Replacements: prev.Replacements,
		Words:        prev.Words,
	}
	log.Debug().Str("game", g.key).Str("mover", mover.Name).
		Str("type", string(ttype)).Msg("move taken back")
	return g.finishTurnLocked(ctx, t)
}
