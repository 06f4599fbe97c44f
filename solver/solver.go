// Package solver defines the best-play solver contract. The search
// algorithm itself lives outside this module; the turn engine only
// needs something that, given a position and a rack, asynchronously
// proposes a scored move or reports that there is none.
package solver

import (
	"context"

	"github.com/domino14/crossplay/board"
	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/tiles"
)

// Progress receives informational strings while a solve is running.
// Callers may ignore every call; progress has no bearing on the result.
type Progress func(msg string)

// A Request is a self-contained description of the position to solve.
// The solver must treat the board as read-only.
type Request struct {
	Board    *board.Board
	Rack     []tiles.Tile
	BagCount int
	Progress Progress
}

// Solver proposes the best legal move for a request. A nil move with a
// nil error means no legal play exists (the caller should pass).
type Solver interface {
	BestPlay(ctx context.Context, req *Request) (*move.Move, error)
}

// Func adapts a plain function to the Solver interface.
type Func func(ctx context.Context, req *Request) (*move.Move, error)

func (f Func) BestPlay(ctx context.Context, req *Request) (*move.Move, error) {
	return f(ctx, req)
}
