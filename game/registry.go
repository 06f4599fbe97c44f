package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/store"
)

// A Registry holds the live games of one process, keyed by game key. A
// cache miss falls through to the store, so a process restart only
// costs the in-memory working set, not the games.
type Registry struct {
	sync.Mutex
	games map[string]*Game
	deps  Dependencies
}

// NewRegistry creates a registry whose cache misses load through the
// given dependencies' store.
func NewRegistry(deps Dependencies) *Registry {
	return &Registry{
		games: make(map[string]*Game),
		deps:  deps,
	}
}

// Get returns the live game with the given key, loading and resuming it
// from the store on a cache miss.
func (r *Registry) Get(ctx context.Context, key string) (*Game, error) {
	r.Lock()
	defer r.Unlock()
	if g, ok := r.games[key]; ok {
		return g, nil
	}
	if r.deps.Store == nil {
		return nil, fmt.Errorf("game %s: %w", key, store.ErrNotFound)
	}
	g, err := LoadGame(ctx, r.deps.Store, key, r.deps)
	if err != nil {
		return nil, err
	}
	g.Resume()
	r.games[key] = g
	log.Debug().Str("game", key).Msg("loaded game into registry")
	return g, nil
}

// Put registers a live game.
func (r *Registry) Put(g *Game) {
	r.Lock()
	defer r.Unlock()
	r.games[g.Key()] = g
}

// Remove evicts a game from the registry, stopping its clock. The
// persisted copy is untouched.
func (r *Registry) Remove(key string) {
	r.Lock()
	g, ok := r.games[key]
	delete(r.games, key)
	r.Unlock()
	if ok {
		g.StopTimers()
	}
}

// Each calls fn for every live game. fn must not call back into the
// registry.
func (r *Registry) Each(fn func(*Game)) {
	r.Lock()
	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	r.Unlock()
	for _, g := range games {
		fn(g)
	}
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.games)
}
