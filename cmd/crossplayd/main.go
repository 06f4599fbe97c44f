// crossplayd is the game server: it hosts the turn engine behind a
// NATS request/reply surface, persists every game to SQLite and
// broadcasts turn events to subscribers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/crossplay/config"
	"github.com/domino14/crossplay/game"
	"github.com/domino14/crossplay/lexicon"
	"github.com/domino14/crossplay/notify"
	"github.com/domino14/crossplay/store"
)

var (
	GitVersion string
)

func main() {
	cfg := config.New()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	var logger zerolog.Logger
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Info().Str("version", GitVersion).Msg("crossplayd starting")

	st, err := store.OpenSQLite(cfg.DBPath())
	if err != nil {
		log.Fatal().Err(err).Msg("could not open game store")
	}
	defer st.Close()

	var oracle lexicon.Oracle
	if cfg.WordList() != "" {
		wl, err := lexicon.LoadWordListFile(cfg.WordList())
		if err != nil {
			log.Fatal().Err(err).Msg("could not load word list")
		}
		oracle = wl
	} else {
		log.Warn().Msg("no word list configured; accepting all words")
		oracle = lexicon.AcceptAll{}
	}

	deps := game.Dependencies{
		Oracle: oracle,
		Store:  st,
	}

	var nc *notify.NATS
	if cfg.NatsURL() != "" {
		nc, err = notify.NewNATS(cfg.NatsURL(), cfg.NatsPrefix())
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to NATS")
		}
		defer nc.Close()
		deps.Notifier = nc
	}

	registry := game.NewRegistry(deps)
	h := newHandler(registry, deps, cfg)

	if nc != nil {
		subject := cfg.NatsPrefix() + ".cmd"
		sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := m.Respond(h.Handle(ctx, m.Data)); err != nil {
				log.Warn().Err(err).Msg("could not respond to command")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not subscribe to command subject")
		}
		defer sub.Unsubscribe()
		log.Info().Str("subject", subject).Msg("listening for commands")
	} else {
		log.Warn().Msg("no NATS URL configured; running with persistence only")
	}

	// Clock broadcasts for every live timed game.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				registry.Each(func(g *game.Game) { g.Tick() })
			case <-done:
				return
			}
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	close(done)
	registry.Each(func(g *game.Game) { g.StopTimers() })
	log.Info().Str("signal", sig.String()).Msg("shutting down")
}
