package tiles

import (
	"fmt"

	"lukechampine.com/frand"
)

// A Bag is the bag o'tiles: the shared pool of undrawn tiles.
type Bag struct {
	tiles []Tile
}

// NewBag creates a bag holding the given tiles and shuffles it.
func NewBag(ts []Tile) *Bag {
	b := &Bag{tiles: make([]Tile, len(ts))}
	copy(b.tiles, ts)
	b.shuffle()
	return b
}

func (b *Bag) shuffle() {
	frand.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

// Draw draws exactly n tiles from the bag, or fails without drawing any.
func (b *Bag) Draw(n int) ([]Tile, error) {
	if n > len(b.tiles) {
		return nil, fmt.Errorf("tried to draw %d tiles, bag has %d", n, len(b.tiles))
	}
	drawn := make([]Tile, n)
	copy(drawn, b.tiles[len(b.tiles)-n:])
	b.tiles = b.tiles[:len(b.tiles)-n]
	return drawn, nil
}

// DrawAtMost draws at most n tiles from the bag. It can draw fewer if
// there are fewer tiles than n, and even draw no tiles at all.
func (b *Bag) DrawAtMost(n int) []Tile {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	drawn, _ := b.Draw(n)
	return drawn
}

// Exchange swaps the given tiles for fresh ones. The replacements are
// drawn first and the discards returned afterwards, so a discard can
// never come straight back in the same exchange. It fails without any
// mutation if the bag holds fewer tiles than are being exchanged.
func (b *Bag) Exchange(discards []Tile) ([]Tile, error) {
	drawn, err := b.Draw(len(discards))
	if err != nil {
		return nil, err
	}
	b.PutBack(discards)
	return drawn, nil
}

// PutBack returns tiles to the bag and reshuffles. Blanks go back
// unassigned.
func (b *Bag) PutBack(ts []Tile) {
	if len(ts) == 0 {
		return
	}
	for _, t := range ts {
		b.tiles = append(b.tiles, t.AsUnplayed())
	}
	b.shuffle()
}

// RemoveTiles removes the given specific tiles from the bag, or fails
// without removing any. It is used to deal a known rack, mostly in
// tests and when reconstructing positions.
func (b *Bag) RemoveTiles(ts []Tile) error {
	scratch := make([]Tile, len(b.tiles))
	copy(scratch, b.tiles)
outer:
	for _, want := range ts {
		for i, have := range scratch {
			if have.Matches(want) {
				scratch = append(scratch[:i], scratch[i+1:]...)
				continue outer
			}
		}
		return fmt.Errorf("cannot remove %v from the bag: not present", want)
	}
	b.tiles = scratch
	return nil
}

// TilesRemaining returns the number of undrawn tiles.
func (b *Bag) TilesRemaining() int {
	return len(b.tiles)
}

// Tiles returns a copy of the bag contents, for persistence. The order
// is meaningless; the bag reshuffles on every return.
func (b *Bag) Tiles() []Tile {
	ts := make([]Tile, len(b.tiles))
	copy(ts, b.tiles)
	return ts
}
