package game

import "time"

// A PlayerSummary is the public view of one player: everything except
// the rack contents, which only the engine and the player may see.
type PlayerSummary struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	IsRobot      bool   `json:"isRobot"`
	CanChallenge bool   `json:"canChallenge"`
	WantsAdvice  bool   `json:"wantsAdvice"`
	Score        int    `json:"score"`
	Passes       int    `json:"passes"`
	TilesHeld    int    `json:"tilesHeld"`
	MillisRemain int64  `json:"millisRemaining"`
}

// A Summary is the broadcastable projection of a game: enough for a
// lobby or spectator view, with no hidden information (no racks, no bag
// contents).
type Summary struct {
	Key          string          `json:"key"`
	Edition      string          `json:"edition"`
	Dictionary   string          `json:"dictionary,omitempty"`
	State        string          `json:"state"`
	PausedBy     string          `json:"pausedBy,omitempty"`
	WhoseTurnKey string          `json:"whoseTurnKey,omitempty"`
	NextGameKey  string          `json:"nextGameKey,omitempty"`
	MinPlayers   int             `json:"minPlayers"`
	MaxPlayers   int             `json:"maxPlayers"`
	TurnCount    int             `json:"turnCount"`
	BagCount     int             `json:"bagCount"`
	Players      []PlayerSummary `json:"players"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastActivity time.Time       `json:"lastActivity"`
}

// Summarize returns the public projection of the game.
func (g *Game) Summarize() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summaryLocked()
}

func (g *Game) summaryLocked() Summary {
	s := Summary{
		Key:          g.key,
		Edition:      g.cfg.Edition,
		Dictionary:   g.cfg.Dictionary,
		State:        g.state,
		PausedBy:     g.pausedBy,
		WhoseTurnKey: g.whoseTurnKey,
		NextGameKey:  g.nextGameKey,
		MinPlayers:   g.cfg.MinPlayers,
		MaxPlayers:   g.cfg.MaxPlayers,
		TurnCount:    len(g.turns),
		CreatedAt:    g.createdAt,
		LastActivity: g.lastActivity,
	}
	if g.bag != nil {
		s.BagCount = g.bag.TilesRemaining()
	}
	s.Players = make([]PlayerSummary, len(g.players))
	for i, p := range g.players {
		s.Players[i] = PlayerSummary{
			Key:          p.Key,
			Name:         p.Name,
			IsRobot:      p.IsRobot,
			CanChallenge: p.CanChallenge,
			WantsAdvice:  p.WantsAdvice,
			Score:        p.Score,
			Passes:       p.Passes,
			TilesHeld:    p.Rack.NumTiles(),
			MillisRemain: p.TimeRemaining.Milliseconds(),
		}
	}
	return s
}
