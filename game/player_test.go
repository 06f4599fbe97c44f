package game

import (
	"context"
	"testing"

	"github.com/matryer/is"
)

func TestRemoveOnTurnPlayerAdvancesTurn(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	f.start(t)
	is.Equal(f.g.WhoseTurnKey(), f.alice.Key)

	before := f.g.BagCount()
	is.NoErr(f.g.RemovePlayer(f.alice.Key))

	// The turn moved to the next seat and still names a live player.
	is.Equal(f.g.WhoseTurnKey(), f.bob.Key)
	_, err := f.g.Player(f.g.WhoseTurnKey())
	is.NoErr(err)
	is.Equal(f.g.State(), StatePlaying)
	is.Equal(f.g.BagCount(), before+7)

	turn, err := f.g.Pass(ctx, TurnPass)
	is.NoErr(err)
	is.Equal(turn.PlayerKey, f.bob.Key)
}

func TestSetRackFor(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{}, Dependencies{})

	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	is.Equal(f.alice.Rack.String(), "CATERED")
	is.Equal(totalTiles(f.g), 100)

	is.True(f.g.SetRackFor("ghost", rackOf("A")) != nil)
}

func TestSetRackForRestoresOnFailure(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	bagBefore := f.g.BagCount()

	// Only one Z exists in the distribution; the request must fail and
	// leave the rack and bag exactly as they were.
	err := f.g.SetRackFor(f.alice.Key, rackOf("ZZZ"))
	is.True(err != nil)
	is.Equal(f.alice.Rack.String(), "CATERED")
	is.Equal(f.g.BagCount(), bagBefore)
	is.Equal(totalTiles(f.g), 100)
}

func TestSummaryHidesRacks(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{Dictionary: "test-words"}, Dependencies{})
	f.start(t)

	s := f.g.Summarize()
	is.Equal(s.Key, f.g.Key())
	is.Equal(s.State, StatePlaying)
	is.Equal(s.WhoseTurnKey, f.alice.Key)
	is.Equal(s.Dictionary, "test-words")
	is.Equal(s.BagCount, 86)
	is.Equal(len(s.Players), 2)
	is.Equal(s.Players[0].TilesHeld, 7)
	is.Equal(s.TurnCount, 0)
}
