package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/solver"
	"github.com/domino14/crossplay/tiles"
)

// Play commits a candidate move. The move must already be scored; the
// engine validates only that the placements use tiles on the acting
// player's rack and target empty cells. An invalid move fails before
// any mutation, so the operation either fully commits or fully aborts.
func (g *Game) Play(ctx context.Context, m *move.Move) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if !g.startedLocked() {
		return nil, ErrGameNotStarted
	}
	p, err := g.playerLocked(m.PlayerKey)
	if err != nil {
		return nil, err
	}
	if p.Key != g.whoseTurnKey {
		return nil, fmt.Errorf("%w: %s is on turn", ErrNotYourTurn, g.whoseTurnKey)
	}
	if err := g.validateMoveLocked(p, m); err != nil {
		return nil, err
	}
	g.stopTimerLocked()
	m.MillisRemaining = p.TimeRemaining.Milliseconds()

	// Advice reads the pre-move board, so it must finish before any
	// mutation below.
	if p.WantsAdvice && g.solver != nil {
		g.adviseLocked(ctx, p)
	}

	// Rack to board. Validation above guarantees none of this fails.
	for _, pl := range m.Placements {
		if err := p.Rack.Remove(pl.Tile); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack desync during play")
			return nil, err
		}
		if err := g.board.Place(pl.Row, pl.Col, pl.Tile); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("board desync during play")
			return nil, err
		}
	}
	p.Score += m.Score

	// Draw one replacement per placement. An emptying bag supplies
	// fewer; that is not an error.
	drawn := g.bag.DrawAtMost(len(m.Placements))
	for _, t := range drawn {
		if err := p.Rack.Add(t); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack overflow during replacement draw")
			return nil, err
		}
	}
	m.Replacements = append(m.Replacements[:0], drawn...)

	// Word vetting is informational feedback to the mover only. It runs
	// detached and can never mutate game state.
	if g.cfg.CheckDictionary && !p.IsRobot && g.oracle != nil && len(m.Words) > 0 {
		words := make([]move.Word, len(m.Words))
		copy(words, m.Words)
		go g.vetWordsDetached(words, p.Key)
	}

	p.Passes = 0
	g.previousMove = m

	if g.allPassedTwiceLocked() {
		return g.confirmGameOverLocked(ctx, EndAllPassedTwice, p.Key)
	}
	next := g.nextPlayerLocked(p)
	g.rotateLocked(next)

	t := &Turn{
		Type:         TurnMove,
		PlayerKey:    p.Key,
		NextToGoKey:  next.Key,
		Score:        m.Score,
		Placements:   m.Placements,
		Replacements: m.Replacements,
		Words:        m.Words,
	}
	log.Debug().Str("game", g.key).Str("player", p.Name).
		Str("move", m.ShortDescription()).Msg("move committed")
	return g.finishTurnLocked(ctx, t)
}

func (g *Game) validateMoveLocked(p *Player, m *move.Move) error {
	if m == nil || len(m.Placements) == 0 {
		return fmt.Errorf("%w: no placements", ErrBadMove)
	}
	placed := make([]tiles.Tile, len(m.Placements))
	seen := make(map[[2]int]bool, len(m.Placements))
	for i, pl := range m.Placements {
		if _, err := g.board.At(pl.Row, pl.Col); err != nil {
			return fmt.Errorf("%w: %v", ErrBadMove, err)
		}
		if g.board.HasTile(pl.Row, pl.Col) {
			return fmt.Errorf("%w: square %d,%d is occupied", ErrBadMove, pl.Row, pl.Col)
		}
		coord := [2]int{pl.Row, pl.Col}
		if seen[coord] {
			return fmt.Errorf("%w: duplicate placement at %d,%d", ErrBadMove, pl.Row, pl.Col)
		}
		seen[coord] = true
		placed[i] = pl.Tile
	}
	if !p.Rack.HasAll(placed) {
		return fmt.Errorf("%w: play uses tiles not on your rack", ErrBadMove)
	}
	return nil
}

// adviseLocked asks the solver what it would have played with the
// acting player's rack and tells only that player. Runs synchronously
// against the pre-move board.
func (g *Game) adviseLocked(ctx context.Context, p *Player) {
	req := &solver.Request{
		Board:    g.board,
		Rack:     p.Rack.Tiles(),
		BagCount: g.bag.TilesRemaining(),
	}
	best, err := g.solver.BestPlay(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("game", g.key).Msg("advice solve failed")
		return
	}
	if best == nil {
		return
	}
	g.notifier.NotifyOne(p.Key, "advice", best.ShortDescription())
}

// Pass records that the current player passed. ptype distinguishes a
// voluntary pass from the turn loss after a failed challenge.
func (g *Game) Pass(ctx context.Context, ptype TurnType) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if !g.startedLocked() {
		return nil, ErrGameNotStarted
	}
	if ptype != TurnPass && ptype != TurnChallengeFailed {
		return nil, fmt.Errorf("%q is not a pass type", ptype)
	}
	p := g.curPlayerLocked()
	g.stopTimerLocked()
	return g.passLocked(ctx, p, ptype)
}

// passAs is the robot loop's pass. Unlike Pass it names the passer, so
// a turn that changed hands while the robot was thinking is rejected
// instead of being passed on someone else's behalf.
func (g *Game) passAs(ctx context.Context, playerKey string, ptype TurnType) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if g.whoseTurnKey != playerKey {
		return nil, fmt.Errorf("%w: %s is on turn", ErrNotYourTurn, g.whoseTurnKey)
	}
	p, err := g.playerLocked(playerKey)
	if err != nil {
		return nil, err
	}
	g.stopTimerLocked()
	return g.passLocked(ctx, p, ptype)
}

func (g *Game) passLocked(ctx context.Context, p *Player, ptype TurnType) (*Turn, error) {
	g.previousMove = nil
	p.Passes++
	log.Debug().Str("game", g.key).Str("player", p.Name).Int("passes", p.Passes).
		Str("type", string(ptype)).Msg("pass")
	if g.allPassedTwiceLocked() {
		return g.confirmGameOverLocked(ctx, EndAllPassedTwice, p.Key)
	}
	next := g.nextPlayerLocked(p)
	g.rotateLocked(next)
	t := &Turn{
		Type:        ptype,
		PlayerKey:   p.Key,
		NextToGoKey: next.Key,
	}
	return g.finishTurnLocked(ctx, t)
}

func (g *Game) allPassedTwiceLocked() bool {
	for _, p := range g.players {
		if p.Passes < 2 {
			return false
		}
	}
	return len(g.players) > 0
}

// Swap discards tiles from the current player's rack in exchange for
// fresh ones. Replacements are drawn before the discards go back, so a
// discard can never bias the immediate draw. A swap counts as a pass
// for pass-counting purposes but, unless SwapObeysPassOut is set, does
// not re-check the everyone-passed-twice termination.
func (g *Game) Swap(ctx context.Context, discards []tiles.Tile) (*Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkMutableLocked(); err != nil {
		return nil, err
	}
	if !g.startedLocked() {
		return nil, ErrGameNotStarted
	}
	if len(discards) == 0 {
		return nil, fmt.Errorf("%w: no tiles to swap", ErrBadMove)
	}
	p := g.curPlayerLocked()
	if !p.Rack.HasAll(discards) {
		return nil, fmt.Errorf("%w: swap uses tiles not on your rack", ErrBadMove)
	}
	if g.bag.TilesRemaining() < len(discards) {
		return nil, fmt.Errorf("%w: swapping %d, bag has %d",
			ErrBagTooSmall, len(discards), g.bag.TilesRemaining())
	}
	g.stopTimerLocked()

	drawn, err := g.bag.Exchange(discards)
	if err != nil {
		// Checked above; reaching this is a programming fault.
		log.Error().Err(err).Str("game", g.key).Msg("bag desync during swap")
		g.startTimerLocked()
		return nil, err
	}
	for _, t := range discards {
		if err := p.Rack.Remove(t); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack desync during swap")
			return nil, err
		}
	}
	for _, t := range drawn {
		if err := p.Rack.Add(t); err != nil {
			log.Error().Err(err).Str("game", g.key).Msg("rack overflow during swap")
			return nil, err
		}
	}

	p.Passes++
	g.previousMove = nil
	if g.cfg.SwapObeysPassOut && g.allPassedTwiceLocked() {
		return g.confirmGameOverLocked(ctx, EndAllPassedTwice, p.Key)
	}
	next := g.nextPlayerLocked(p)
	g.rotateLocked(next)
	t := &Turn{
		Type:         TurnSwap,
		PlayerKey:    p.Key,
		NextToGoKey:  next.Key,
		Replacements: drawn,
	}
	log.Debug().Str("game", g.key).Str("player", p.Name).
		Int("tiles", len(discards)).Msg("swap committed")
	return g.finishTurnLocked(ctx, t)
}
