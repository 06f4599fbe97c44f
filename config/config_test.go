package config

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := New()
	is.NoErr(c.Load(nil))
	is.Equal(c.NatsURL(), "")
	is.Equal(c.NatsPrefix(), "crossplay")
	is.Equal(c.DBPath(), "crossplay.db")
	is.Equal(c.DefaultEdition(), "english")
	is.Equal(c.TurnTimeout(), time.Duration(0))
	is.Equal(c.MinPlayers(), 2)
	is.Equal(c.MaxPlayers(), 0)
	is.True(c.AllowTakeBack())
	is.True(c.CheckDictionary())
	is.True(!c.Debug())
}

func TestFlags(t *testing.T) {
	is := is.New(t)
	c := New()
	is.NoErr(c.Load([]string{
		"--nats-url", "nats://localhost:4222",
		"--turn-timeout", "45s",
		"--max-players", "4",
		"--allow-take-back=false",
	}))
	is.Equal(c.NatsURL(), "nats://localhost:4222")
	is.Equal(c.TurnTimeout(), 45*time.Second)
	is.Equal(c.MaxPlayers(), 4)
	is.True(!c.AllowTakeBack())
}

func TestEnvironment(t *testing.T) {
	is := is.New(t)
	t.Setenv("CROSSPLAY_DB_PATH", "/tmp/env.db")
	t.Setenv("CROSSPLAY_DEBUG", "true")
	c := New()
	is.NoErr(c.Load(nil))
	is.Equal(c.DBPath(), "/tmp/env.db")
	is.True(c.Debug())
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	is.True(New().Load([]string{"--turn-timeout", "sideways"}) != nil)
}
