// Package edition loads game editions: the board layout, rack size and
// letter distribution for a particular flavor of the game. Editions are
// YAML files; the standard ones are embedded in the binary. Loading an
// edition is a separate step from constructing a game, so construction
// and readiness stay distinct.
package edition

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/crossplay/board"
	"github.com/domino14/crossplay/tiles"
)

//go:embed data/*.yaml
var editionFS embed.FS

// A TileSpec describes one kind of tile in the distribution.
type TileSpec struct {
	Letter string `yaml:"letter"`
	Count  int    `yaml:"count"`
	Value  int    `yaml:"value"`
	Blank  bool   `yaml:"blank"`
}

// An Edition is an immutable description of one game flavor.
type Edition struct {
	Name     string     `yaml:"name"`
	RackSize int        `yaml:"rackSize"`
	Layout   []string   `yaml:"layout"`
	Tiles    []TileSpec `yaml:"tiles"`
}

var (
	mu     sync.Mutex
	loaded = map[string]*Edition{}
)

// Load returns the named edition, parsing and caching it on first use.
// It looks for an embedded data/<name>.yaml first and then for a file
// of that name on disk.
func Load(name string) (*Edition, error) {
	mu.Lock()
	defer mu.Unlock()
	if ed, ok := loaded[name]; ok {
		return ed, nil
	}

	raw, err := fs.ReadFile(editionFS, "data/"+name+".yaml")
	if err != nil {
		raw, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("edition %q not found", name)
		}
	}
	ed := &Edition{}
	if err := yaml.Unmarshal(raw, ed); err != nil {
		return nil, fmt.Errorf("parsing edition %q: %w", name, err)
	}
	if err := ed.validate(); err != nil {
		return nil, fmt.Errorf("edition %q: %w", name, err)
	}
	log.Debug().Str("edition", ed.Name).Int("tiles", ed.TileCount()).
		Int("dim", len(ed.Layout)).Msg("loaded edition")
	loaded[name] = ed
	return ed, nil
}

func (e *Edition) validate() error {
	if e.Name == "" {
		return fmt.Errorf("edition has no name")
	}
	if e.RackSize <= 0 {
		return fmt.Errorf("rack size must be positive")
	}
	if len(e.Layout) == 0 {
		return fmt.Errorf("edition has no board layout")
	}
	if e.TileCount() < e.RackSize {
		return fmt.Errorf("distribution has fewer tiles than one rack")
	}
	for _, spec := range e.Tiles {
		if !spec.Blank && len([]rune(spec.Letter)) != 1 {
			return fmt.Errorf("tile letter %q must be a single rune", spec.Letter)
		}
	}
	return nil
}

// TileCount returns the total number of tiles in the distribution.
func (e *Edition) TileCount() int {
	n := 0
	for _, spec := range e.Tiles {
		n += spec.Count
	}
	return n
}

// Board builds a fresh, empty board from the edition layout.
func (e *Edition) Board() (*board.Board, error) {
	return board.NewFromLayout(e.Layout)
}

// Bag builds a fresh, full, shuffled bag from the distribution.
func (e *Edition) Bag() *tiles.Bag {
	var ts []tiles.Tile
	for _, spec := range e.Tiles {
		t := tiles.Tile{Value: spec.Value}
		if spec.Blank {
			t.IsBlank = true
			t.Letter = tiles.Blank
		} else {
			t.Letter = []rune(spec.Letter)[0]
		}
		for i := 0; i < spec.Count; i++ {
			ts = append(ts, t)
		}
	}
	return tiles.NewBag(ts)
}
