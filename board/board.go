// Package board implements the board surface: a square grid of cells
// that tiles can be placed on, removed from and read back. Placement
// legality (connectivity, word formation, scoring) is the solver's
// concern; the board only guarantees a cell holds at most one tile.
package board

import (
	"fmt"
	"strings"

	"github.com/domino14/crossplay/tiles"
)

// A Square is one cell of the board. Multipliers are fixed at
// construction from the edition layout; Tile is nil while the cell is
// empty.
type Square struct {
	LetterMultiplier int
	WordMultiplier   int
	tile             *tiles.Tile
}

// Tile returns the tile on this square, or nil.
func (s *Square) Tile() *tiles.Tile {
	return s.tile
}

// A PlacedTile is a tile together with where it sits on the board.
type PlacedTile struct {
	Tile tiles.Tile `json:"tile"`
	Row  int        `json:"row"`
	Col  int        `json:"col"`
}

// Board is a dim x dim grid of squares.
type Board struct {
	dim     int
	squares []Square
}

// New creates an empty board with no premium squares.
func New(dim int) *Board {
	return &Board{dim: dim, squares: make([]Square, dim*dim)}
}

// Layout symbols, as used in edition files.
const (
	plainSquare        = '.'
	doubleLetterSquare = 'd'
	tripleLetterSquare = 't'
	doubleWordSquare   = 'D'
	tripleWordSquare   = 'T'
)

// NewFromLayout creates an empty board whose premium squares follow the
// given row strings (one rune per column).
func NewFromLayout(layout []string) (*Board, error) {
	dim := len(layout)
	if dim == 0 {
		return nil, fmt.Errorf("empty board layout")
	}
	b := New(dim)
	for row, line := range layout {
		runes := []rune(line)
		if len(runes) != dim {
			return nil, fmt.Errorf("layout row %d has %d squares, want %d", row, len(runes), dim)
		}
		for col, r := range runes {
			sq := &b.squares[row*dim+col]
			sq.LetterMultiplier, sq.WordMultiplier = 1, 1
			switch r {
			case plainSquare:
			case doubleLetterSquare:
				sq.LetterMultiplier = 2
			case tripleLetterSquare:
				sq.LetterMultiplier = 3
			case doubleWordSquare:
				sq.WordMultiplier = 2
			case tripleWordSquare:
				sq.WordMultiplier = 3
			default:
				return nil, fmt.Errorf("unknown layout symbol %q at %d,%d", r, row, col)
			}
		}
	}
	return b, nil
}

// Copy returns an independent copy of the board. Mutations to either
// board are invisible to the other.
func (b *Board) Copy() *Board {
	nb := &Board{dim: b.dim, squares: make([]Square, len(b.squares))}
	copy(nb.squares, b.squares)
	for i := range nb.squares {
		if t := b.squares[i].tile; t != nil {
			placed := *t
			nb.squares[i].tile = &placed
		}
	}
	return nb
}

// Dim returns the board dimension.
func (b *Board) Dim() int {
	return b.dim
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.dim && col >= 0 && col < b.dim
}

// At returns the square at row, col.
func (b *Board) At(row, col int) (*Square, error) {
	if !b.inBounds(row, col) {
		return nil, fmt.Errorf("square %d,%d is out of bounds", row, col)
	}
	return &b.squares[row*b.dim+col], nil
}

// HasTile reports whether the cell holds a tile. Out-of-bounds cells
// report false.
func (b *Board) HasTile(row, col int) bool {
	return b.inBounds(row, col) && b.squares[row*b.dim+col].tile != nil
}

// Place puts a tile on an empty cell. Placing on an occupied or
// out-of-bounds cell fails and changes nothing.
func (b *Board) Place(row, col int, t tiles.Tile) error {
	sq, err := b.At(row, col)
	if err != nil {
		return err
	}
	if sq.tile != nil {
		return fmt.Errorf("square %d,%d is already occupied", row, col)
	}
	placed := t
	sq.tile = &placed
	return nil
}

// Remove takes the tile off a cell and returns it. Removing from an
// empty cell is an error.
func (b *Board) Remove(row, col int) (tiles.Tile, error) {
	sq, err := b.At(row, col)
	if err != nil {
		return tiles.Tile{}, err
	}
	if sq.tile == nil {
		return tiles.Tile{}, fmt.Errorf("square %d,%d is empty", row, col)
	}
	t := *sq.tile
	sq.tile = nil
	return t, nil
}

// TilesPlaced returns the number of occupied cells.
func (b *Board) TilesPlaced() int {
	n := 0
	for i := range b.squares {
		if b.squares[i].tile != nil {
			n++
		}
	}
	return n
}

// Placed returns every tile on the board with its position, in row-major
// order. It is the board's contribution to a game snapshot.
func (b *Board) Placed() []PlacedTile {
	var placed []PlacedTile
	for i := range b.squares {
		if t := b.squares[i].tile; t != nil {
			placed = append(placed, PlacedTile{Tile: *t, Row: i / b.dim, Col: i % b.dim})
		}
	}
	return placed
}

// String renders the board for debugging.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if t := b.squares[row*b.dim+col].tile; t != nil {
				sb.WriteRune(t.Letter)
			} else {
				sb.WriteRune('.')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
