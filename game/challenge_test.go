package game

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/crossplay/tiles"
)

// sortedLetters renders a tile multiset for order-insensitive
// comparison.
func sortedLetters(ts []tiles.Tile) string {
	rs := make([]rune, len(ts))
	for i, t := range ts {
		rs[i] = t.Letter
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}

func TestChallengeSucceeds(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	oracle := mapOracle{} // rejects everything
	f := newFixture(t, Config{TurnTimeout: time.Minute}, Dependencies{Oracle: oracle})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CQTERED")))
	f.start(t)

	rackBefore := sortedLetters(f.alice.Rack.Tiles())
	bagBefore := f.g.BagCount()
	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CQT", 7, 7, 10))
	is.NoErr(err)

	turn, err := f.g.Challenge(ctx, f.bob.Key)
	is.NoErr(err)

	is.Equal(turn.Type, TurnChallengeWon)
	is.Equal(turn.PlayerKey, f.alice.Key) // the reversed mover
	is.Equal(turn.NextToGoKey, f.bob.Key)
	is.Equal(turn.Score, -10)

	// The move is reversed exactly.
	is.Equal(f.alice.Score, 0)
	is.Equal(sortedLetters(f.alice.Rack.Tiles()), rackBefore)
	is.Equal(f.g.board.TilesPlaced(), 0)
	is.Equal(f.g.BagCount(), bagBefore)
	is.Equal(f.g.PreviousMove(), nil)
	is.Equal(totalTiles(f.g), 100)

	// The challenger keeps the turn with a full clock.
	is.Equal(f.g.WhoseTurnKey(), f.bob.Key)
	is.Equal(f.bob.TimeRemaining, time.Minute)
}

func TestChallengeFails(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	oracle := mapOracle{"CAT": true}
	f := newFixture(t, Config{}, Dependencies{Oracle: oracle})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	f.start(t)

	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)

	turn, err := f.g.Challenge(ctx, f.bob.Key)
	is.NoErr(err)

	// The challenger loses their turn; the move stands.
	is.Equal(turn.Type, TurnChallengeFailed)
	is.Equal(turn.PlayerKey, f.bob.Key)
	is.Equal(turn.NextToGoKey, f.alice.Key)
	is.Equal(f.alice.Score, 10)
	is.Equal(f.g.board.TilesPlaced(), 3)
	is.Equal(f.bob.Passes, 1)
	is.Equal(f.g.WhoseTurnKey(), f.alice.Key)
	is.Equal(f.g.State(), StatePlaying)
}

func TestChallengeFailedOnLastPlaySealsGame(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	oracle := mapOracle{"CAT": true}
	f := newFixture(t, Config{}, Dependencies{Oracle: oracle})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CAT")))
	is.NoErr(f.g.SetRackFor(f.bob.Key, rackOf("QZ")))
	f.start(t)
	f.g.bag.DrawAtMost(f.g.bag.TilesRemaining()) // empty the bag

	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)
	is.True(f.alice.Rack.Empty())

	turn, err := f.g.Challenge(ctx, f.bob.Key)
	is.NoErr(err)

	// The failed challenge seals the game; no pass turn is emitted.
	is.Equal(turn.Type, TurnType(EndChallengeFailed))
	is.Equal(turn.PlayerKey, f.bob.Key)
	is.Equal(f.g.State(), string(EndChallengeFailed))
	is.Equal(len(f.g.Turns()), 2) // the move, then the end record

	// Zero sum: Alice collects what Bob forfeits.
	is.Equal(turn.EndScores[f.alice.Key], 20)
	is.Equal(turn.EndScores[f.bob.Key], -20)
	is.Equal(f.alice.Score, 30)
	is.Equal(f.bob.Score, -20)
}

func TestChallengeWithoutOracleSucceeds(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	f.start(t)

	_, err := f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)
	turn, err := f.g.Challenge(ctx, f.bob.Key)
	is.NoErr(err)
	is.Equal(turn.Type, TurnChallengeWon)
	is.Equal(f.alice.Score, 0)
}

func TestChallengePreconditions(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{}, Dependencies{Oracle: mapOracle{"CAT": true}})
	is.NoErr(f.g.SetRackFor(f.alice.Key, rackOf("CATERED")))
	f.start(t)

	// Nothing to challenge yet.
	_, err := f.g.Challenge(ctx, f.alice.Key)
	is.True(errors.Is(err, ErrNoPreviousMove))

	_, err = f.g.Play(ctx, wordMove(f.alice.Key, "CAT", 7, 7, 10))
	is.NoErr(err)

	// Only the player on turn may challenge.
	_, err = f.g.Challenge(ctx, f.alice.Key)
	is.True(errors.Is(err, ErrNotYourTurn))

	// A player stripped of the right cannot challenge.
	f.bob.CanChallenge = false
	_, err = f.g.Challenge(ctx, f.bob.Key)
	is.True(errors.Is(err, ErrCannotChallenge))

	_, err = f.g.Challenge(ctx, "ghost")
	is.True(errors.Is(err, ErrUnknownPlayer))
}
