// Package move defines the move data types. A Move is transient input
// to the turn engine: it only becomes part of the record once the
// engine commits it into a Turn.
package move

import (
	"fmt"
	"strings"

	"github.com/domino14/crossplay/tiles"
)

// A Placement is one tile played onto one board coordinate.
type Placement struct {
	Tile tiles.Tile `json:"tile"`
	Row  int        `json:"row"`
	Col  int        `json:"col"`
}

// A Word is one word formed by a move, with the score its letters
// contributed. Scoring arithmetic is the solver's concern; the engine
// carries the result.
type Word struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// A Move is a proposed (or committed) tile placement. The engine trusts
// a Move that has already been scored; it validates only rack and board
// consistency.
type Move struct {
	PlayerKey  string      `json:"playerKey"`
	Placements []Placement `json:"placements"`
	// Replacements is filled in by the engine as it draws from the bag.
	Replacements []tiles.Tile `json:"replacements,omitempty"`
	Score        int          `json:"score"`
	Words        []Word       `json:"words,omitempty"`
	// MillisRemaining is the mover's clock at commit time. A voluntary
	// take-back restarts the turn from this snapshot.
	MillisRemaining int64 `json:"millisRemaining,omitempty"`
}

// TilesPlayed returns the number of tiles this move places.
func (m *Move) TilesPlayed() int {
	return len(m.Placements)
}

// WordStrings returns just the word texts.
func (m *Move) WordStrings() []string {
	ws := make([]string, len(m.Words))
	for i, w := range m.Words {
		ws[i] = w.Text
	}
	return ws
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m *Move) ShortDescription() string {
	if len(m.Placements) == 0 {
		return "(no placements)"
	}
	var sb strings.Builder
	for _, p := range m.Placements {
		sb.WriteString(p.Tile.String())
	}
	return fmt.Sprintf("%s at %d,%d for %d", sb.String(),
		m.Placements[0].Row, m.Placements[0].Col, m.Score)
}
