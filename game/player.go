package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/tiles"
)

// A Player is one participant in a game. Fields are mutated only by the
// turn engine while holding the game's lock.
type Player struct {
	Key          string
	Name         string
	IsRobot      bool
	CanChallenge bool
	WantsAdvice  bool

	Score  int
	Passes int
	Rack   *tiles.Rack
	// TimeRemaining is the clock for the in-progress turn. Zero on an
	// untimed game.
	TimeRemaining time.Duration
}

// AddPlayer adds a player to the roster, dealing them a full rack from
// the bag. Players can only be added before the first turn, and only
// while the roster is below the maximum (0 = unbounded). A bag that
// cannot supply a full rack is a fatal configuration error.
func (g *Game) AddPlayer(name string, isRobot bool) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ed == nil {
		return nil, ErrGameNotReady
	}
	if g.startedLocked() {
		return nil, ErrGameStarted
	}
	if g.cfg.MaxPlayers > 0 && len(g.players) >= g.cfg.MaxPlayers {
		return nil, fmt.Errorf("%w (%d)", ErrGameFull, g.cfg.MaxPlayers)
	}
	dealt, err := g.bag.Draw(g.ed.RackSize)
	if err != nil {
		return nil, fmt.Errorf("cannot deal a full rack for %s: %w", name, err)
	}
	rack, err := tiles.RackFromTiles(g.ed.RackSize, dealt)
	if err != nil {
		return nil, err
	}
	p := &Player{
		Key:          uuid.NewString(),
		Name:         name,
		IsRobot:      isRobot,
		CanChallenge: !isRobot,
		Rack:         rack,
	}
	g.players = append(g.players, p)
	log.Debug().Str("game", g.key).Str("player", p.Key).Str("name", name).
		Bool("robot", isRobot).Msg("added player")
	return p, nil
}

// RemovePlayer deletes a player from the roster, returning their rack
// tiles to the bag first. Removing the player on turn hands the turn
// to the next seat with a fresh clock, so the game never points at a
// missing player. An unknown key is a loud error.
func (g *Game) RemovePlayer(playerKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, p := range g.players {
		if p.Key != playerKey {
			continue
		}
		if g.whoseTurnKey == p.Key {
			g.stopTimerLocked()
			if len(g.players) > 1 {
				g.rotateLocked(g.nextPlayerLocked(p))
			} else {
				g.whoseTurnKey = ""
			}
		}
		if g.previousMove != nil && g.previousMove.PlayerKey == p.Key {
			// Their tiles stay on the board; with the mover gone there
			// is nobody to reverse the play for.
			g.previousMove = nil
		}
		g.bag.PutBack(p.Rack.Tiles())
		g.players = append(g.players[:i], g.players[i+1:]...)
		log.Debug().Str("game", g.key).Str("player", playerKey).Msg("removed player")
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerKey)
}

// Player returns the player with the given key.
func (g *Game) Player(playerKey string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerLocked(playerKey)
}

func (g *Game) playerLocked(playerKey string) (*Player, error) {
	for _, p := range g.players {
		if p.Key == playerKey {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerKey)
}

// CurrentPlayer returns the player whose turn it is, or the conceptual
// current player (the first seat) if the game has not started. It is
// nil only on an empty roster.
func (g *Game) CurrentPlayer() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.curPlayerLocked()
}

func (g *Game) curPlayerLocked() *Player {
	if g.whoseTurnKey != "" {
		if p, err := g.playerLocked(g.whoseTurnKey); err == nil {
			return p
		}
	}
	if len(g.players) > 0 {
		return g.players[0]
	}
	return nil
}

// NextPlayer returns the player one seat after from, wrapping
// circularly over the seating order.
func (g *Game) NextPlayer(from *Player) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextPlayerLocked(from)
}

func (g *Game) nextPlayerLocked(from *Player) *Player {
	return g.seatOffsetLocked(from, 1)
}

// PreviousPlayer returns the player one seat before from.
func (g *Game) PreviousPlayer(from *Player) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatOffsetLocked(from, -1)
}

func (g *Game) seatOffsetLocked(from *Player, offset int) *Player {
	n := len(g.players)
	if n == 0 {
		return nil
	}
	for i, p := range g.players {
		if p.Key == from.Key {
			return g.players[(i+offset+n)%n]
		}
	}
	return nil
}

// SetRackFor replaces a player's rack with the given specific tiles,
// drawing them from the bag after returning the old rack. It is used to
// reconstruct known positions, chiefly in tests.
func (g *Game) SetRackFor(playerKey string, ts []tiles.Tile) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.playerLocked(playerKey)
	if err != nil {
		return err
	}
	old := p.Rack.Tiles()
	g.bag.PutBack(old)
	if err := g.bag.RemoveTiles(ts); err != nil {
		// The old rack tiles are certainly in the bag; re-draw them to
		// leave everything as it was.
		if rerr := g.bag.RemoveTiles(old); rerr != nil {
			log.Error().Err(rerr).Str("game", g.key).Msg("could not restore rack after failed SetRackFor")
		}
		return err
	}
	rack, err := tiles.RackFromTiles(g.ed.RackSize, ts)
	if err != nil {
		g.bag.PutBack(ts)
		if rerr := g.bag.RemoveTiles(old); rerr != nil {
			log.Error().Err(rerr).Str("game", g.key).Msg("could not restore rack after failed SetRackFor")
		}
		return err
	}
	p.Rack = rack
	log.Debug().Str("game", g.key).Str("player", playerKey).
		Str("rack", rack.String()).Msg("set rack")
	return nil
}
