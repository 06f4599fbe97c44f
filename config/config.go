// Package config loads the server configuration from flags and
// environment variables. Every flag has an environment twin with the
// CROSSPLAY_ prefix (nats-url becomes CROSSPLAY_NATS_URL); flags win.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

func New() *Config {
	return &Config{v: viper.New()}
}

// Load parses args and binds the environment. It only fails on
// malformed flags.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("crossplay", pflag.ContinueOnError)
	fs.String("nats-url", "", "NATS server URL; empty disables notifications")
	fs.String("nats-prefix", "crossplay", "subject prefix for published events")
	fs.String("db-path", "crossplay.db", "path to the games database")
	fs.String("word-list", "", "path to a newline-separated word list; empty accepts all words")
	fs.String("default-edition", "english", "edition used when a game specifies none")
	fs.Duration("turn-timeout", 0, "per-turn clock; 0 means untimed")
	fs.Int("min-players", 2, "minimum players per game")
	fs.Int("max-players", 0, "maximum players per game; 0 means unbounded")
	fs.Bool("allow-take-back", true, "let players take back their previous move")
	fs.Bool("check-dictionary", true, "vet committed words and tell the mover about unknown ones")
	fs.Bool("debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.v.SetEnvPrefix("crossplay")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

func (c *Config) NatsURL() string            { return c.v.GetString("nats-url") }
func (c *Config) NatsPrefix() string         { return c.v.GetString("nats-prefix") }
func (c *Config) DBPath() string             { return c.v.GetString("db-path") }
func (c *Config) WordList() string           { return c.v.GetString("word-list") }
func (c *Config) DefaultEdition() string     { return c.v.GetString("default-edition") }
func (c *Config) TurnTimeout() time.Duration { return c.v.GetDuration("turn-timeout") }
func (c *Config) MinPlayers() int            { return c.v.GetInt("min-players") }
func (c *Config) MaxPlayers() int            { return c.v.GetInt("max-players") }
func (c *Config) AllowTakeBack() bool        { return c.v.GetBool("allow-take-back") }
func (c *Config) CheckDictionary() bool      { return c.v.GetBool("check-dictionary") }
func (c *Config) Debug() bool                { return c.v.GetBool("debug") }

// Set overrides one setting, chiefly for tests.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}
