package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ConfirmGameOver ends the game with the given reason, applying the
// end-of-game rack adjustments. The transition is one-way and happens
// exactly once; a second call fails with ErrGameOver.
func (g *Game) ConfirmGameOver(ctx context.Context, reason EndReason) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePlaying {
		return nil, fmt.Errorf("%w (%s)", ErrGameOver, g.state)
	}
	acting := ""
	if p := g.curPlayerLocked(); p != nil {
		acting = p.Key
	}
	g.stopTimerLocked()
	return g.confirmGameOverLocked(ctx, reason, acting)
}

// confirmGameOverLocked is the single terminal transition. It emits a
// turn whose type tag is the end reason and whose score is the
// per-player delta map from the finalizer.
func (g *Game) confirmGameOverLocked(ctx context.Context, reason EndReason, actingKey string) (*Turn, error) {
	deltas, err := g.finalScoreDeltasLocked()
	if err != nil {
		return nil, err
	}
	for _, p := range g.players {
		p.Score += deltas[p.Key]
	}
	g.stopTimerLocked()
	g.state = string(reason)
	g.whoseTurnKey = ""
	g.previousMove = nil
	g.pausedBy = ""

	t := &Turn{
		Type:      TurnType(reason),
		PlayerKey: actingKey,
		EndScores: deltas,
	}
	log.Info().Str("game", g.key).Str("reason", string(reason)).
		Interface("deltas", deltas).Msg("game over")
	return g.finishTurnLocked(ctx, t)
}

// finalScoreDeltasLocked computes the end-of-game adjustments: every
// player holding tiles forfeits their rack value; a player who emptied
// their rack (there can be at most one) collects everyone else's
// forfeits, making the deltas sum to zero. More than one empty rack
// means an upstream invariant was violated, and the operation aborts.
func (g *Game) finalScoreDeltasLocked() (map[string]int, error) {
	empty := lo.Filter(g.players, func(p *Player, _ int) bool {
		return p.Rack.Empty()
	})
	if len(empty) > 1 {
		log.Error().Str("game", g.key).Int("emptyRacks", len(empty)).
			Msg("invariant violation at game end")
		return nil, ErrMultipleEmptyRacks
	}
	deltas := make(map[string]int, len(g.players))
	pot := 0
	for _, p := range g.players {
		if p.Rack.Empty() {
			continue
		}
		forfeit := p.Rack.Score()
		deltas[p.Key] = -forfeit
		pot += forfeit
	}
	if len(empty) == 1 {
		deltas[empty[0].Key] = pot
	}
	return deltas, nil
}
