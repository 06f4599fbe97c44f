package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestMemRoundTrip(t *testing.T) {
	is := is.New(t)
	m := NewMem()
	ctx := context.Background()

	_, err := m.Load(ctx, "nope")
	is.True(errors.Is(err, ErrNotFound))

	is.NoErr(m.Save(ctx, "g1", []byte("state-1")))
	is.NoErr(m.Save(ctx, "g1", []byte("state-2")))
	is.NoErr(m.Save(ctx, "g2", []byte("other")))

	got, err := m.Load(ctx, "g1")
	is.NoErr(err)
	is.Equal(string(got), "state-2")

	keys, err := m.List(ctx)
	is.NoErr(err)
	is.Equal(len(keys), 2)
}

func TestMemCopiesState(t *testing.T) {
	is := is.New(t)
	m := NewMem()
	ctx := context.Background()
	state := []byte("abc")
	is.NoErr(m.Save(ctx, "g", state))
	state[0] = 'x'
	got, err := m.Load(ctx, "g")
	is.NoErr(err)
	is.Equal(string(got), "abc")
	got[0] = 'y'
	again, err := m.Load(ctx, "g")
	is.NoErr(err)
	is.Equal(string(again), "abc")
}
