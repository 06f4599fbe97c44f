package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/solver"
)

// AdvanceRobots plays out consecutive robot turns until a human is on
// turn, the game ends, or the context expires. Each robot turn goes
// through the same entry points a human would use, so all the usual
// validation and commit machinery applies. Without a solver, robots
// pass.
//
// A robot on turn first vets the previous human move against the
// dictionary and claims a won challenge when any word is bad. Robots
// never issue a speculative challenge: they only challenge plays the
// oracle rejects.
func (g *Game) AdvanceRobots(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.mu.Lock()
		if g.state != StatePlaying || g.pausedBy != "" || g.whoseTurnKey == "" {
			g.mu.Unlock()
			return nil
		}
		p := g.curPlayerLocked()
		if p == nil || !p.IsRobot {
			g.mu.Unlock()
			return nil
		}
		robotKey := p.Key
		var suspect []string
		if g.oracle != nil && g.previousMove != nil && g.previousMove.PlayerKey != robotKey {
			if mover, err := g.playerLocked(g.previousMove.PlayerKey); err == nil && !mover.IsRobot {
				suspect = g.previousMove.WordStrings()
			}
		}
		// The request carries a copy of the position taken under the
		// lock; a concurrent take-back or timeout must not mutate the
		// board the solver is reading.
		req := &solver.Request{
			Board:    g.board.Copy(),
			Rack:     p.Rack.Tiles(),
			BagCount: g.bag.TilesRemaining(),
		}
		g.mu.Unlock()

		// Oracle and solver calls happen outside the lock; the entry
		// points below re-validate that the robot is still on turn.
		if len(suspect) > 0 && !g.wordsAllValid(ctx, suspect) {
			if _, err := g.TakeBack(ctx, robotKey, TurnChallengeWon); err != nil {
				if concededTurn(err) {
					continue
				}
				return err
			}
			continue
		}

		var best *move.Move
		if g.solver != nil {
			m, err := g.solver.BestPlay(ctx, req)
			if err != nil {
				log.Warn().Err(err).Str("game", g.key).Msg("robot solve failed, passing")
			} else {
				best = m
			}
		}
		if best == nil {
			if _, err := g.passAs(ctx, robotKey, TurnPass); err != nil {
				if concededTurn(err) {
					continue
				}
				return err
			}
			continue
		}
		best.PlayerKey = robotKey
		if _, err := g.Play(ctx, best); err != nil {
			if errors.Is(err, ErrBadMove) {
				// The solver produced an illegal play; passing keeps the
				// game moving.
				log.Error().Err(err).Str("game", g.key).Msg("robot play rejected")
				if _, perr := g.passAs(ctx, robotKey, TurnPass); perr != nil && !concededTurn(perr) {
					return perr
				}
				continue
			}
			if concededTurn(err) {
				continue
			}
			return err
		}
	}
}

// concededTurn reports whether the error means someone else moved the
// game on while the robot was thinking. The loop re-inspects instead of
// failing.
func concededTurn(err error) bool {
	return errors.Is(err, ErrNotYourTurn) || errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrGamePaused) || errors.Is(err, ErrNoPreviousMove)
}
