package tiles

import (
	"fmt"
	"strings"
)

// Rack is a player's private, bounded set of tiles. It is a multiset:
// the same letter may appear several times.
type Rack struct {
	capacity int
	tiles    []Tile
}

// NewRack creates an empty rack with the given capacity.
func NewRack(capacity int) *Rack {
	return &Rack{capacity: capacity}
}

// RackFromTiles builds a rack holding the given tiles. It is used when
// restoring a persisted game.
func RackFromTiles(capacity int, ts []Tile) (*Rack, error) {
	if len(ts) > capacity {
		return nil, fmt.Errorf("rack can hold %d tiles, got %d", capacity, len(ts))
	}
	r := NewRack(capacity)
	r.tiles = append(r.tiles, ts...)
	return r, nil
}

// Add puts a tile on the rack. It fails if the rack is already at
// capacity; a failed Add changes nothing.
func (r *Rack) Add(t Tile) error {
	if len(r.tiles) >= r.capacity {
		return fmt.Errorf("rack is full (%d tiles)", r.capacity)
	}
	r.tiles = append(r.tiles, t)
	return nil
}

// Remove takes one matching tile off the rack. Blanks match blanks
// regardless of any letter assigned to them.
func (r *Rack) Remove(t Tile) error {
	for i, have := range r.tiles {
		if have.Matches(t) {
			r.tiles = append(r.tiles[:i], r.tiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tile %v is not on the rack", t)
}

// HasAll reports whether every tile in ts is on the rack, counting
// duplicates. A play using two E tiles needs two E tiles on the rack.
func (r *Rack) HasAll(ts []Tile) bool {
	scratch := make([]Tile, len(r.tiles))
	copy(scratch, r.tiles)
outer:
	for _, want := range ts {
		for i, have := range scratch {
			if have.Matches(want) {
				scratch = append(scratch[:i], scratch[i+1:]...)
				continue outer
			}
		}
		return false
	}
	return true
}

// Tiles returns a copy of the rack's current tiles.
func (r *Rack) Tiles() []Tile {
	ts := make([]Tile, len(r.tiles))
	copy(ts, r.tiles)
	return ts
}

// NumTiles returns the current number of tiles on the rack.
func (r *Rack) NumTiles() int {
	return len(r.tiles)
}

func (r *Rack) Empty() bool {
	return len(r.tiles) == 0
}

func (r *Rack) Capacity() int {
	return r.capacity
}

// Score returns the total point value of the tiles on the rack. It is
// what a player forfeits at the end of the game.
func (r *Rack) Score() int {
	score := 0
	for _, t := range r.tiles {
		score += t.Value
	}
	return score
}

func (r *Rack) String() string {
	var sb strings.Builder
	for _, t := range r.tiles {
		sb.WriteString(t.String())
	}
	return sb.String()
}
