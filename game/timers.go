package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Timer handling. Exactly one player's clock runs at a time (the
// current player's). Every mutating entry point cancels the running
// timer as its first step, so a callback that fires after the player
// already acted sees a bumped epoch and becomes a no-op.

// startTimerLocked arms the clock for the current player. A player with
// no time left gets the full allotment (their turn just started).
func (g *Game) startTimerLocked() {
	if g.cfg.TurnTimeout == 0 || g.state != StatePlaying {
		return
	}
	p := g.curPlayerLocked()
	if p == nil || g.whoseTurnKey == "" {
		return
	}
	if p.TimeRemaining <= 0 {
		p.TimeRemaining = g.cfg.TurnTimeout
	}
	g.timerEpoch++
	epoch := g.timerEpoch
	key := p.Key
	g.timerDeadline = time.Now().Add(p.TimeRemaining)
	g.timer = time.AfterFunc(p.TimeRemaining, func() {
		g.timedOut(epoch, key)
	})
}

// stopTimerLocked cancels any running clock and banks the current
// player's remaining time. It is idempotent, and bumping the epoch
// guarantees no already-fired callback can still mutate the game.
func (g *Game) stopTimerLocked() {
	g.timerEpoch++
	if g.timer == nil {
		return
	}
	g.timer.Stop()
	g.timer = nil
	if g.cfg.TurnTimeout == 0 {
		return
	}
	if p := g.curPlayerLocked(); p != nil && g.whoseTurnKey != "" {
		remaining := time.Until(g.timerDeadline)
		if remaining < 0 {
			remaining = 0
		}
		p.TimeRemaining = remaining
	}
}

// StopTimers cancels all scheduled callbacks. Safe to call repeatedly,
// and afterwards no dangling callback can mutate the game.
func (g *Game) StopTimers() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimerLocked()
}

// timedOut is the timer callback: the current player's clock ran dry.
// It takes the same pass path as a manual pass. A stale epoch, a
// terminal game or a changed turn all make it a no-op, never an error.
func (g *Game) timedOut(epoch uint64, playerKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.timerEpoch || g.state != StatePlaying || g.pausedBy != "" ||
		g.whoseTurnKey != playerKey {
		return
	}
	p, err := g.playerLocked(playerKey)
	if err != nil {
		return
	}
	p.TimeRemaining = 0
	g.timer = nil
	log.Info().Str("game", g.key).Str("player", p.Name).Msg("turn timed out")
	g.notifier.NotifyAll("timeout", p.Key)
	ctx := context.Background()
	// A pass-out that a timeout completes ends the game with reason
	// timed-out, not all-players-passed-twice.
	g.previousMove = nil
	p.Passes++
	if g.allPassedTwiceLocked() {
		if _, err := g.confirmGameOverLocked(ctx, EndTimedOut, p.Key); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("timeout end failed")
		}
		return
	}
	next := g.nextPlayerLocked(p)
	g.rotateLocked(next)
	t := &Turn{
		Type:        TurnPass,
		PlayerKey:   p.Key,
		NextToGoKey: next.Key,
	}
	if _, err := g.finishTurnLocked(ctx, t); err != nil {
		log.Error().Err(err).Str("game", g.key).Msg("timeout pass failed")
	}
}

// Tick broadcasts the current player's remaining clock. It is purely
// informational and may be throttled or dropped under load.
func (g *Game) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePlaying || g.cfg.TurnTimeout == 0 ||
		g.whoseTurnKey == "" || g.timer == nil {
		return
	}
	remaining := time.Until(g.timerDeadline)
	if remaining < 0 {
		remaining = 0
	}
	g.notifier.NotifyAll("tick", map[string]any{
		"playerKey":       g.whoseTurnKey,
		"millisRemaining": remaining.Milliseconds(),
	})
}
