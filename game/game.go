// Package game implements the turn engine for a multiplayer
// tile-placement word game: the single source of truth for whose turn
// it is, which moves are legal, how scores and racks evolve, how
// challenges and take-backs are adjudicated, and when the game ends.
// All entry points on a Game serialize on one mutex, so no two of them
// ever interleave against the same game.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/crossplay/board"
	"github.com/domino14/crossplay/edition"
	"github.com/domino14/crossplay/lexicon"
	"github.com/domino14/crossplay/move"
	"github.com/domino14/crossplay/notify"
	"github.com/domino14/crossplay/solver"
	"github.com/domino14/crossplay/store"
	"github.com/domino14/crossplay/tiles"
)

// Config is the immutable configuration of one game. Copying a prior
// game's configuration is a plain struct copy, never structural
// coercion of some other object.
type Config struct {
	Edition    string `json:"edition"`
	Dictionary string `json:"dictionary,omitempty"`
	// TurnTimeout is the per-play time budget. 0 means unlimited.
	TurnTimeout time.Duration `json:"turnTimeout"`
	MinPlayers  int           `json:"minPlayers"`
	// MaxPlayers of 0 means unbounded.
	MaxPlayers      int  `json:"maxPlayers"`
	PredictScore    bool `json:"predictScore"`
	AllowTakeBack   bool `json:"allowTakeBack"`
	CheckDictionary bool `json:"checkDictionary"`
	// SwapObeysPassOut makes a swap re-check the everyone-passed-twice
	// termination condition, even though a swap counts as a pass. Off
	// by default: a swap resets the clock on stalling.
	SwapObeysPassOut bool `json:"swapObeysPassOut"`
}

func (c Config) withDefaults() Config {
	if c.Edition == "" {
		c.Edition = "english"
	}
	if c.MinPlayers == 0 {
		c.MinPlayers = 2
	}
	return c
}

// Dependencies are the external collaborators a game talks to. Oracle
// and Solver may be nil (no-dictionary mode, no autoplay); a nil
// Notifier discards events; a nil Store disables persistence.
type Dependencies struct {
	Oracle   lexicon.Oracle
	Solver   solver.Solver
	Notifier notify.Notifier
	Store    store.Store
}

// Game is the aggregate root. It owns the board, the bag, the roster
// and the turn log, and is mutated only through its entry points.
type Game struct {
	mu sync.Mutex

	key string
	cfg Config
	ed  *edition.Edition

	// state is StatePlaying or a terminal EndReason. The transition to
	// a terminal state happens exactly once and is never left.
	state    string
	pausedBy string

	players      []*Player
	turns        []*Turn
	whoseTurnKey string
	// previousMove is set iff a take-back or challenge against it is
	// still possible.
	previousMove *move.Move
	nextGameKey  string

	board *board.Board
	bag   *tiles.Bag

	oracle   lexicon.Oracle
	solver   solver.Solver
	notifier notify.Notifier
	store    store.Store

	timer         *time.Timer
	timerEpoch    uint64
	timerDeadline time.Time

	createdAt    time.Time
	lastActivity time.Time
}

// New constructs a game. The edition is fixed here but not yet loaded;
// call Open before adding players.
func New(cfg Config, deps Dependencies) (*Game, error) {
	cfg = cfg.withDefaults()
	if cfg.MinPlayers < 2 {
		return nil, fmt.Errorf("minimum players must be at least 2, got %d", cfg.MinPlayers)
	}
	if cfg.MaxPlayers != 0 && cfg.MaxPlayers < cfg.MinPlayers {
		return nil, fmt.Errorf("maximum players %d is below minimum %d",
			cfg.MaxPlayers, cfg.MinPlayers)
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	now := time.Now()
	g := &Game{
		key:          uuid.NewString(),
		cfg:          cfg,
		state:        StatePlaying,
		oracle:       deps.Oracle,
		solver:       deps.Solver,
		notifier:     notifier,
		store:        deps.Store,
		createdAt:    now,
		lastActivity: now,
	}
	return g, nil
}

// Open loads the game's edition and instantiates the board and bag.
// Construction and readiness are distinct steps because edition data
// loads asynchronously from the caller's point of view.
func (g *Game) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ed != nil {
		return nil
	}
	ed, err := edition.Load(g.cfg.Edition)
	if err != nil {
		return err
	}
	b, err := ed.Board()
	if err != nil {
		return err
	}
	g.ed = ed
	g.board = b
	g.bag = ed.Bag()
	log.Debug().Str("game", g.key).Str("edition", ed.Name).Msg("game ready")
	return nil
}

// StartGame begins play: the first seat goes on turn and their clock
// starts.
func (g *Game) StartGame(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ed == nil {
		return ErrGameNotReady
	}
	if g.startedLocked() {
		return ErrGameStarted
	}
	if len(g.players) < g.cfg.MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers,
			len(g.players), g.cfg.MinPlayers)
	}
	first := g.players[0]
	g.whoseTurnKey = first.Key
	first.TimeRemaining = g.cfg.TurnTimeout
	g.startTimerLocked()
	g.lastActivity = time.Now()
	if err := g.saveLocked(ctx); err != nil {
		log.Error().Err(err).Str("game", g.key).Msg("could not persist game start")
	}
	g.notifier.NotifyAll("start", g.summaryLocked())
	log.Info().Str("game", g.key).Str("first", first.Name).Msg("game started")
	return nil
}

func (g *Game) startedLocked() bool {
	return g.whoseTurnKey != "" || len(g.turns) > 0 || g.state != StatePlaying
}

// checkMutableLocked gates every mutating entry point.
func (g *Game) checkMutableLocked() error {
	if g.state != StatePlaying {
		return fmt.Errorf("%w (%s)", ErrGameOver, g.state)
	}
	if g.pausedBy != "" {
		return ErrGamePaused
	}
	return nil
}

// rotateLocked hands the turn to next with a fresh clock. Rotation is
// never automatic; only committed turns call this.
func (g *Game) rotateLocked(next *Player) {
	g.whoseTurnKey = next.Key
	next.TimeRemaining = g.cfg.TurnTimeout
	g.startTimerLocked()
}

/// finishTurnLocked is the single commit step: it appends the turn to
// the log, persists the whole aggregate and fans the turn out.
func (g *Game) finishTurnLocked(ctx context.Context, t *Turn) (*Turn, error) {
	t.Timestamp = time.Now()
	g.turns = append(g.turns, t)
	g.lastActivity = t.Timestamp
	if err := g.saveLocked(ctx); err != nil {
		// External-dependency failure; the turn stays committed.
		log.Error().Err(err).Str("game", g.key).Str("type", string(t.Type)).
			Msg("could not persist turn")
	}
	g.notifier.NotifyAll("turn", t)
	return t, nil
}

func (g *Game) saveLocked(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	data, err := json.Marshal(g.snapshotLocked())
	if err != nil {
		return fmt.Errorf("marshaling game %s: %w", g.key, err)
	}
	return retry.Do(
		func() error { return g.store.Save(ctx, g.key, data) },
		retry.Attempts(3),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}

// Pause suspends play: the clock stops and mutating entry points are
// rejected until Unpause.
func (g *Game) Pause(playerKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePlaying {
		return fmt.Errorf("%w (%s)", ErrGameOver, g.state)
	}
	if g.pausedBy != "" {
		return fmt.Errorf("game is already paused by %s", g.pausedBy)
	}
	p, err := g.playerLocked(playerKey)
	if err != nil {
		return err
	}
	g.stopTimerLocked()
	g.pausedBy = p.Key
	g.notifier.NotifyAll("paused", p.Name)
	return nil
}

// Unpause resumes play and restarts the current player's clock from
// where it stopped.
func (g *Game) Unpause(playerKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pausedBy == "" {
		return errors.New("game is not paused")
	}
	p, err := g.playerLocked(playerKey)
	if err != nil {
		return err
	}
	g.pausedBy = ""
	g.startTimerLocked()
	g.notifier.NotifyAll("unpaused", p.Name)
	return nil
}

// NextGame spawns a follow-on game with the same configuration and
// roster (fresh racks, zero scores) and records it as this game's
// successor. The old game's turns are never touched.
func (g *Game) NextGame(ctx context.Context) (*Game, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StatePlaying {
		return nil, errors.New("cannot create a next game while this one is playing")
	}
	if g.nextGameKey != "" {
		return nil, fmt.Errorf("next game was already created: %s", g.nextGameKey)
	}
	ng, err := New(g.cfg, Dependencies{
		Oracle: g.oracle, Solver: g.solver, Notifier: g.notifier, Store: g.store,
	})
	if err != nil {
		return nil, err
	}
	if err := ng.Open(ctx); err != nil {
		return nil, err
	}
	for _, p := range g.players {
		np, err := ng.AddPlayer(p.Name, p.IsRobot)
		if err != nil {
			return nil, err
		}
		np.CanChallenge = p.CanChallenge
		np.WantsAdvice = p.WantsAdvice
	}
	g.nextGameKey = ng.Key()
	if err := g.saveLocked(ctx); err != nil {
		log.Error().Err(err).Str("game", g.key).Msg("could not persist successor key")
	}
	g.notifier.NotifyAll("nextGame", ng.Key())
	log.Info().Str("game", g.key).Str("next", ng.Key()).Msg("created next game")
	return ng, nil
}

// Key returns the game's unique key.
func (g *Game) Key() string {
	return g.key
}

// State returns StatePlaying or the terminal reason.
func (g *Game) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Playing reports whether the game is still in progress.
func (g *Game) Playing() bool {
	return g.State() == StatePlaying
}

// WhoseTurnKey returns the key of the player on turn, or empty.
func (g *Game) WhoseTurnKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.whoseTurnKey
}

// Players returns the roster in seating order.
func (g *Game) Players() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	ps := make([]*Player, len(g.players))
	copy(ps, g.players)
	return ps
}

// Turns returns the committed turn records, oldest first.
func (g *Game) Turns() []*Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	ts := make([]*Turn, len(g.turns))
	copy(ts, g.turns)
	return ts
}

// PreviousMove returns the most recent committed move, or nil if no
// take-back or challenge against it is possible anymore.
func (g *Game) PreviousMove() *move.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.previousMove
}

// NextGameKey returns the successor game's key, if one was spawned.
func (g *Game) NextGameKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextGameKey
}

// Board returns the board surface. Callers outside the engine must
// treat it as read-only.
func (g *Game) Board() *board.Board {
	return g.board
}

// BagCount returns the number of undrawn tiles.
func (g *Game) BagCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bag.TilesRemaining()
}

// vetWordsDetached checks the formed words of a committed human move
// against the oracle and tells only the mover about unknown words. It
// runs detached from the committing call; its only permitted effects
// are oracle reads and a single notification. It never touches scores
// or racks.
func (g *Game) vetWordsDetached(words []move.Word, playerKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var (
		unknownMu sync.Mutex
		unknown   []string
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, w := range words {
		word := w.Text
		eg.Go(func() error {
			ok, err := g.oracle.HasWord(ctx, word)
			if err != nil {
				log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed")
				return nil
			}
			if !ok {
				unknownMu.Lock()
				unknown = append(unknown, word)
				unknownMu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	if len(unknown) > 0 {
		g.notifier.NotifyOne(playerKey, "unknown-words", unknown)
	}
}
