package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/config"
	"github.com/domino14/crossplay/game"
	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/tiles"
)

// A request is one command on the wire. Op selects the operation; the
// other fields are filled in as the operation needs them.
type request struct {
	Op        string `json:"op"`
	GameKey   string `json:"gameKey,omitempty"`
	PlayerKey string `json:"playerKey,omitempty"`
	Name      string `json:"name,omitempty"`
	IsRobot   bool   `json:"isRobot,omitempty"`
	// Letters name rack tiles by letter for a swap; '?' is a blank.
	Letters string       `json:"letters,omitempty"`
	Move    *move.Move   `json:"move,omitempty"`
	Config  *game.Config `json:"config,omitempty"`
}

type response struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

type handler struct {
	registry *game.Registry
	deps     game.Dependencies
	cfg      *config.Config
}

func newHandler(registry *game.Registry, deps game.Dependencies, cfg *config.Config) *handler {
	return &handler{registry: registry, deps: deps, cfg: cfg}
}

// Handle decodes one command, runs it and encodes the reply. It never
// returns malformed JSON; encoding problems degrade to an error reply.
func (h *handler) Handle(ctx context.Context, data []byte) []byte {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return h.encode(response{Error: fmt.Sprintf("bad request: %v", err)})
	}
	result, err := h.dispatch(ctx, &req)
	if err != nil {
		log.Debug().Err(err).Str("op", req.Op).Str("game", req.GameKey).Msg("command failed")
		return h.encode(response{Error: err.Error()})
	}
	return h.encode(response{OK: true, Result: result})
}

func (h *handler) encode(resp response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("could not marshal response")
		data, _ = json.Marshal(response{Error: "internal encoding error"})
	}
	return data
}

func (h *handler) dispatch(ctx context.Context, req *request) (any, error) {
	switch req.Op {
	case "newGame":
		return h.newGame(ctx, req)
	case "listGames":
		if h.deps.Store == nil {
			return []string{}, nil
		}
		return h.deps.Store.List(ctx)
	}

	g, err := h.registry.Get(ctx, req.GameKey)
	if err != nil {
		return nil, err
	}
	switch req.Op {
	case "addPlayer":
		p, err := g.AddPlayer(req.Name, req.IsRobot)
		if err != nil {
			return nil, err
		}
		return map[string]string{"playerKey": p.Key}, nil
	case "removePlayer":
		return nil, g.RemovePlayer(req.PlayerKey)
	case "start":
		if err := g.StartGame(ctx); err != nil {
			return nil, err
		}
		h.advance(g)
		return g.Summarize(), nil
	case "play":
		if req.Move == nil {
			return nil, fmt.Errorf("play needs a move")
		}
		t, err := g.Play(ctx, req.Move)
		if err != nil {
			return nil, err
		}
		h.advance(g)
		return t, nil
	case "pass":
		t, err := g.Pass(ctx, game.TurnPass)
		if err != nil {
			return nil, err
		}
		h.advance(g)
		return t, nil
	case "swap":
		discards, err := swapTiles(g, req.Letters)
		if err != nil {
			return nil, err
		}
		t, err := g.Swap(ctx, discards)
		if err != nil {
			return nil, err
		}
		h.advance(g)
		return t, nil
	case "challenge":
		t, err := g.Challenge(ctx, req.PlayerKey)
		if err != nil {
			return nil, err
		}
		h.advance(g)
		return t, nil
	case "takeBack":
		return g.TakeBack(ctx, req.PlayerKey, game.TurnTookBack)
	case "gameOver":
		return g.ConfirmGameOver(ctx, game.EndConfirmed)
	case "pause":
		return nil, g.Pause(req.PlayerKey)
	case "unpause":
		if err := g.Unpause(req.PlayerKey); err != nil {
			return nil, err
		}
		h.advance(g)
		return nil, nil
	case "nextGame":
		ng, err := g.NextGame(ctx)
		if err != nil {
			return nil, err
		}
		h.registry.Put(ng)
		return ng.Summarize(), nil
	case "summary":
		return g.Summarize(), nil
	case "turns":
		return g.Turns(), nil
	default:
		return nil, fmt.Errorf("unknown op %q", req.Op)
	}
}

func (h *handler) newGame(ctx context.Context, req *request) (any, error) {
	cfg := game.Config{
		Edition:         h.cfg.DefaultEdition(),
		TurnTimeout:     h.cfg.TurnTimeout(),
		MinPlayers:      h.cfg.MinPlayers(),
		MaxPlayers:      h.cfg.MaxPlayers(),
		AllowTakeBack:   h.cfg.AllowTakeBack(),
		CheckDictionary: h.cfg.CheckDictionary(),
	}
	if req.Config != nil {
		cfg = *req.Config
	}
	g, err := game.New(cfg, h.deps)
	if err != nil {
		return nil, err
	}
	if err := g.Open(ctx); err != nil {
		return nil, err
	}
	h.registry.Put(g)
	log.Info().Str("game", g.Key()).Msg("created game")
	return map[string]string{"gameKey": g.Key()}, nil
}

// advance plays out any robot turns in the background. Errors are
// logged; the triggering command already succeeded.
func (h *handler) advance(g *game.Game) {
	go func() {
		if err := g.AdvanceRobots(context.Background()); err != nil {
			log.Error().Err(err).Str("game", g.Key()).Msg("robot advance failed")
		}
	}()
}

// swapTiles resolves the requested letters against the current player's
// rack, so the discards carry the right point values.
func swapTiles(g *game.Game, letters string) ([]tiles.Tile, error) {
	p := g.CurrentPlayer()
	if p == nil {
		return nil, fmt.Errorf("game has no players")
	}
	avail := p.Rack.Tiles()
	var discards []tiles.Tile
outer:
	for _, r := range letters {
		for i, t := range avail {
			if t.Letter == r || (r == '?' && t.IsBlank) {
				discards = append(discards, t)
				avail = append(avail[:i], avail[i+1:]...)
				continue outer
			}
		}
		return nil, fmt.Errorf("no %q on your rack", r)
	}
	return discards, nil
}
