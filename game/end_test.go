package game

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/domino14/crossplay/tiles"
)

func TestFinalizerNoEmptyRack(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("AB"))) // 1 + 3
	is.NoErr(f.g.SetRackFor(f.bob.Key, rackOf("QZ")))   // 10 + 10
	f.start(t)
	f.alice.Score = 50
	f.bob.Score = 40

	turn, err := f.g.ConfirmGameOver(ctx, EndConfirmed)
	is.NoErr(err)

	// Everyone still holding tiles forfeits their own rack value.
	is.Equal(turn.Type, TurnType(EndConfirmed))
	is.Equal(turn.EndScores[f.alice.Key], -4)
	is.Equal(turn.EndScores[f.bob.Key], -20)
	is.Equal(f.alice.Score, 46)
	is.Equal(f.bob.Score, 20)
	is.Equal(f.g.State(), string(EndConfirmed))
}

func TestFinalizerZeroSumWithEmptyRack(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, nil))
	is.NoErr(f.g.SetRackFor(f.bob.Key, rackOf("QZV"))) // 10 + 10 + 4
	f.start(t)

	turn, err := f.g.ConfirmGameOver(ctx, EndConfirmed)
	is.NoErr(err)

	is.Equal(turn.EndScores[f.alice.Key], 24)
	is.Equal(turn.EndScores[f.bob.Key], -24)
	sum := 0
	for _, d := range turn.EndScores {
		sum += d
	}
	is.Equal(sum, 0)
}

func TestFinalizerRejectsTwoEmptyRacks(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, nil))
	is.NoErr(f.g.SetRackFor(f.bob.Key, nil))
	f.start(t)

	_, err := f.g.ConfirmGameOver(ctx, EndConfirmed)
	is.True(errors.Is(err, ErrMultipleEmptyRacks))
	// The aborted transition leaves the game playing.
	is.Equal(f.g.State(), StatePlaying)
	is.Equal(f.alice.Score, 0)
}

func TestGameOverIsExactlyOnce(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	f.start(t)

	first, err := f.g.ConfirmGameOver(ctx, EndConfirmed)
	is.NoErr(err)
	is.Equal(first.NextToGoKey, "")
	is.Equal(f.g.WhoseTurnKey(), "")

	_, err = f.g.ConfirmGameOver(ctx, EndConfirmed)
	is.True(errors.Is(err, ErrGameOver))
	_, err = f.g.Pass(ctx, TurnPass)
	is.True(errors.Is(err, ErrGameOver))
	is.Equal(len(f.g.Turns()), 1)
}

func TestFinalizerDeltaTable(t *testing.T) {
	cases := []struct {
		name      string
		aliceRack []tiles.Tile
		bobRack   []tiles.Tile
		wantAlice int
		wantBob   int
	}{
		{"both holding", rackOf("AB"), rackOf("E"), -4, -1},
		{"alice out", nil, rackOf("JX"), 16, -16},
		{"bob out", rackOf("Q"), nil, -10, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, Config{}, Dependencies{})
			require.NoError(t, f.g.SetRackFor(f.alice.Key, tc.aliceRack))
			require.NoError(t, f.g.SetRackFor(f.bob.Key, tc.bobRack))
			f.start(t)

			turn, err := f.g.ConfirmGameOver(ctx, EndConfirmed)
			require.NoError(t, err)
			require.Equal(t, tc.wantAlice, turn.EndScores[f.alice.Key])
			require.Equal(t, tc.wantBob, turn.EndScores[f.bob.Key])
		})
	}
}
