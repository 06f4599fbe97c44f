package game

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/domino14/crossplay/notify"
	"github.com/domino14/crossplay/store"
)

func TestSnapshotRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{AllowTakeBack: true}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	f.start(t)

	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)
	_, err = f.g.Pass(ctx, TurnPass)
	is.NoErr(err)

	// Every committed turn saved the aggregate; load the latest copy.
	restored, err := LoadGame(ctx, f.mem, f.g.Key(),
		Dependencies{Notifier: &notify.Recorder{}})
	is.NoErr(err)

	is.Equal(restored.Key(), f.g.Key())
	is.Equal(restored.State(), StatePlaying)
	is.Equal(restored.WhoseTurnKey(), f.alice.Key)
	is.Equal(len(restored.Turns()), 2)
	is.Equal(restored.BagCount(), f.g.BagCount())
	is.Equal(restored.board.TilesPlaced(), 3)
	is.Equal(totalTiles(restored), 100)

	rp := restored.Players()
	is.Equal(len(rp), 2)
	is.Equal(rp[0].Name, "Alice")
	is.Equal(rp[0].Score, 10)
	is.Equal(sortedLetters(rp[0].Rack.Tiles()), sortedLetters(f.alice.Rack.Tiles()))
	is.Equal(rp[1].Passes, 1)

	// The persisted previous move is gone (the pass cleared it), so a
	// take-back on the restored game has nothing to reverse.
	is.Equal(restored.PreviousMove(), nil)
}

func TestSnapshotPreservesPreviousMove(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{AllowTakeBack: true}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	f.start(t)
	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)

	restored, err := LoadGame(ctx, f.mem, f.g.Key(), Dependencies{})
	is.NoErr(err)
	is.True(restored.PreviousMove() != nil)
	is.Equal(restored.PreviousMove().Score, 10)

	// The restored game can reverse the restored move.
	_, err = restored.TakeBack(ctx, f.alice.Key, TurnTookBack)
	is.NoErr(err)
	is.Equal(restored.Players()[0].Score, 0)
	is.Equal(restored.board.TilesPlaced(), 0)
	is.Equal(totalTiles(restored), 100)
}

func TestLoadGameUnknownKey(t *testing.T) {
	is := is.New(t)
	_, err := LoadGame(context.Background(), store.NewMem(), "ghost", Dependencies{})
	is.True(err != nil)
}

func TestResumeRestartsClock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{TurnTimeout: 150 * time.Millisecond}, Dependencies{})
	f.start(t)
	f.g.StopTimers()

	rec := &notify.Recorder{}
	restored, err := LoadGame(ctx, f.mem, f.g.Key(), Dependencies{Notifier: rec})
	require.NoError(t, err)
	t.Cleanup(restored.StopTimers)

	// Until Resume, no clock runs on a restored game.
	time.Sleep(100 * time.Millisecond)
	require.Len(t, restored.Turns(), 0)

	restored.Resume()
	require.Eventually(t, func() bool {
		return len(restored.Turns()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, TurnPass, restored.Turns()[0].Type)
}
