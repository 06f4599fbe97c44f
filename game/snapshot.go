package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/board"
	"github.com/domino14/crossplay/edition"
	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/notify"
	"github.com/domino14/crossplay/store"
	"github.com/domino14/crossplay/tiles"
)

// A PlayerSnapshot is the persisted form of one player, rack included.
type PlayerSnapshot struct {
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	IsRobot      bool         `json:"isRobot"`
	CanChallenge bool         `json:"canChallenge"`
	WantsAdvice  bool         `json:"wantsAdvice"`
	Score        int          `json:"score"`
	Passes       int          `json:"passes"`
	Rack         []tiles.Tile `json:"rack"`
	MillisRemain int64        `json:"millisRemaining"`
}

// A Snapshot is the full persisted state of a game. Restoring a
// snapshot and snapshotting again yields the same snapshot, up to bag
// and rack ordering, which carry no meaning.
type Snapshot struct {
	Key          string             `json:"key"`
	Config       Config             `json:"config"`
	State        string             `json:"state"`
	PausedBy     string             `json:"pausedBy,omitempty"`
	WhoseTurnKey string             `json:"whoseTurnKey,omitempty"`
	NextGameKey  string             `json:"nextGameKey,omitempty"`
	Players      []PlayerSnapshot   `json:"players"`
	Turns        []*Turn            `json:"turns"`
	PreviousMove *move.Move         `json:"previousMove,omitempty"`
	Board        []board.PlacedTile `json:"board"`
	Bag          []tiles.Tile       `json:"bag"`
	CreatedAt    time.Time          `json:"createdAt"`
	LastActivity time.Time          `json:"lastActivity"`
}

// Snapshot returns the full persisted state of the game.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Key:          g.key,
		Config:       g.cfg,
		State:        g.state,
		PausedBy:     g.pausedBy,
		WhoseTurnKey: g.whoseTurnKey,
		NextGameKey:  g.nextGameKey,
		Turns:        g.turns,
		PreviousMove: g.previousMove,
		CreatedAt:    g.createdAt,
		LastActivity: g.lastActivity,
	}
	if g.board != nil {
		snap.Board = g.board.Placed()
	}
	if g.bag != nil {
		snap.Bag = g.bag.Tiles()
	}
	snap.Players = make([]PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		snap.Players[i] = PlayerSnapshot{
			Key:          p.Key,
			Name:         p.Name,
			IsRobot:      p.IsRobot,
			CanChallenge: p.CanChallenge,
			WantsAdvice:  p.WantsAdvice,
			Score:        p.Score,
			Passes:       p.Passes,
			Rack:         p.Rack.Tiles(),
			MillisRemain: p.TimeRemaining.Milliseconds(),
		}
	}
	return snap
}

// Restore rebuilds a game from a snapshot. The returned game has no
// running clock; call Resume to start it.
func Restore(snap *Snapshot, deps Dependencies) (*Game, error) {
	cfg := snap.Config.withDefaults()
	ed, err := edition.Load(cfg.Edition)
	if err != nil {
		return nil, err
	}
	b, err := ed.Board()
	if err != nil {
		return nil, err
	}
	for _, pl := range snap.Board {
		if err := b.Place(pl.Row, pl.Col, pl.Tile); err != nil {
			return nil, fmt.Errorf("restoring board of game %s: %w", snap.Key, err)
		}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	g := &Game{
		key:          snap.Key,
		cfg:          cfg,
		ed:           ed,
		state:        snap.State,
		pausedBy:     snap.PausedBy,
		whoseTurnKey: snap.WhoseTurnKey,
		nextGameKey:  snap.NextGameKey,
		turns:        snap.Turns,
		previousMove: snap.PreviousMove,
		board:        b,
		bag:          tiles.NewBag(snap.Bag),
		oracle:       deps.Oracle,
		solver:       deps.Solver,
		notifier:     notifier,
		store:        deps.Store,
		createdAt:    snap.CreatedAt,
		lastActivity: snap.LastActivity,
	}
	g.players = make([]*Player, len(snap.Players))
	for i, ps := range snap.Players {
		rack, err := tiles.RackFromTiles(ed.RackSize, ps.Rack)
		if err != nil {
			return nil, fmt.Errorf("restoring rack of %s: %w", ps.Name, err)
		}
		g.players[i] = &Player{
			Key:           ps.Key,
			Name:          ps.Name,
			IsRobot:       ps.IsRobot,
			CanChallenge:  ps.CanChallenge,
			WantsAdvice:   ps.WantsAdvice,
			Score:         ps.Score,
			Passes:        ps.Passes,
			Rack:          rack,
			TimeRemaining: time.Duration(ps.MillisRemain) * time.Millisecond,
		}
	}
	log.Debug().Str("game", g.key).Str("state", g.state).Msg("game restored")
	return g, nil
}

// LoadGame loads a persisted game from the store and rebuilds it. The
// clock stays stopped until Resume.
func LoadGame(ctx context.Context, st store.Store, key string, deps Dependencies) (*Game, error) {
	data, err := st.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling game %s: %w", key, err)
	}
	if deps.Store == nil {
		deps.Store = st
	}
	return Restore(&snap, deps)
}

// Resume restarts the current player's clock after a restore. On a
// terminal, paused or unstarted game it does nothing.
func (g *Game) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePlaying || g.pausedBy != "" || g.whoseTurnKey == "" {
		return
	}
	g.startTimerLocked()
}
