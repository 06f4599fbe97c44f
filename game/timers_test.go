package game

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
)

func TestTimeoutPassesAutomatically(t *testing.T) {
	f := newFixture(t, Config{TurnTimeout: 40 * time.Millisecond}, Dependencies{})
	f.start(t)

	require.Eventually(t, func() bool {
		return f.g.WhoseTurnKey() == f.bob.Key
	}, 2*time.Second, 5*time.Millisecond)

	turns := f.g.Turns()
	require.Len(t, turns, 1)
	require.Equal(t, TurnPass, turns[0].Type)
	require.Equal(t, f.alice.Key, turns[0].PlayerKey)
	require.Equal(t, 1, f.alice.Passes)
	require.Len(t, f.rec.Named("timeout"), 1)
	f.g.StopTimers()
}

func TestTimerCancelledByAction(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFixture(t, Config{TurnTimeout: 60 * time.Millisecond}, Dependencies{})
	f.start(t)

	_, err := f.g.Pass(ctx, TurnPass)
	is.NoErr(err)
	f.g.StopTimers()
	time.Sleep(120 * time.Millisecond)

	// Alice acted before her timer fired; the callback was a no-op and
	// only her manual pass is on record.
	is.Equal(len(f.g.Turns()), 1)
	is.Equal(f.alice.Passes, 1)
	is.Equal(len(f.rec.Named("timeout")), 0)
}

func TestStopTimersLeavesNoCallback(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{TurnTimeout: 30 * time.Millisecond}, Dependencies{})
	f.start(t)

	f.g.StopTimers()
	f.g.StopTimers() // idempotent
	time.Sleep(80 * time.Millisecond)
	is.Equal(len(f.g.Turns()), 0)
	is.Equal(f.g.WhoseTurnKey(), f.alice.Key)
}

func TestPauseStopsClock(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{TurnTimeout: 40 * time.Millisecond}, Dependencies{})
	f.start(t)

	is.NoErr(f.g.Pause(f.alice.Key))
	time.Sleep(100 * time.Millisecond)
	is.Equal(len(f.g.Turns()), 0) // no timeout while paused
	is.Equal(f.g.WhoseTurnKey(), f.alice.Key)
	is.NoErr(f.g.Unpause(f.alice.Key))
	f.g.StopTimers()
}

func TestTimeoutCompletesPassOut(t *testing.T) {
	f := newFixture(t, Config{TurnTimeout: 40 * time.Millisecond}, Dependencies{})
	f.alice.Passes = 1
	f.bob.Passes = 2
	f.start(t)

	require.Eventually(t, func() bool {
		return !f.g.Playing()
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, string(EndTimedOut), f.g.State())
	turns := f.g.Turns()
	require.Equal(t, TurnType(EndTimedOut), turns[len(turns)-1].Type)
}

func TestTickBroadcastsClock(t *testing.T) {
	is := is.New(t)
	f := newFixture(t, Config{TurnTimeout: time.Minute}, Dependencies{})
	f.start(t)

	f.g.Tick()
	ticks := f.rec.Named("tick")
	is.Equal(len(ticks), 1)
	payload := ticks[0].Payload.(map[string]any)
	is.Equal(payload["playerKey"], f.alice.Key)
	is.True(payload["millisRemaining"].(int64) > 0)
	f.g.StopTimers()

	// Untimed and stopped games broadcast nothing.
	f.g.Tick()
	is.Equal(len(f.rec.Named("tick")), 1)
}
