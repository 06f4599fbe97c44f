// Package tiles implements the tile ledger: the tile, rack and bag
// primitives shared by every part of the game. Every operation in this
// package conserves tiles; once a bag has been built, nothing here can
// create or destroy a tile.
package tiles

import "fmt"

// Blank is the letter a blank tile carries while it is unplayed. When a
// blank is placed on the board it gets a real letter assigned; when it
// comes back off the board (a take-back) it reverts to Blank.
const Blank rune = ' '

// A Tile is a letter with a point value. Blanks are worth zero and carry
// the Blank letter until they are played.
type Tile struct {
	Letter  rune `json:"letter"`
	Value   int  `json:"value"`
	IsBlank bool `json:"isBlank,omitempty"`
}

// AsUnplayed returns the tile as it should appear back on a rack or in
// the bag: blanks lose their assigned letter.
func (t Tile) AsUnplayed() Tile {
	if t.IsBlank {
		t.Letter = Blank
	}
	return t
}

// Matches reports whether t can stand in for other when removing tiles
// from a rack or a bag. A blank matches any blank regardless of the
// letter currently assigned to it.
func (t Tile) Matches(other Tile) bool {
	if t.IsBlank || other.IsBlank {
		return t.IsBlank == other.IsBlank
	}
	return t.Letter == other.Letter && t.Value == other.Value
}

func (t Tile) String() string {
	if t.IsBlank {
		return fmt.Sprintf("[%c]", t.Letter)
	}
	return string(t.Letter)
}
