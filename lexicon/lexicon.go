// Package lexicon defines the dictionary oracle the turn engine
// consults when adjudicating challenges, plus a plain word-list-backed
// implementation. A game with no oracle runs in no-dictionary mode:
// every challenge succeeds.
package lexicon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Oracle answers word-membership queries. Implementations must be safe
// for concurrent use; the engine queries them from detached goroutines.
type Oracle interface {
	Name() string
	HasWord(ctx context.Context, word string) (bool, error)
}

// AcceptAll is an oracle that accepts every word. Useful for friendly
// games and tests.
type AcceptAll struct{}

func (AcceptAll) Name() string { return "AcceptAll" }

func (AcceptAll) HasWord(ctx context.Context, word string) (bool, error) {
	return true, nil
}

// WordList is an in-memory oracle loaded from a plain word list, one
// word per line. Lookups are case-insensitive.
type WordList struct {
	name  string
	words map[string]struct{}
}

// LoadWordList reads a word list from r.
func LoadWordList(name string, r io.Reader) (*WordList, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", name, err)
	}
	log.Info().Str("lexicon", name).Int("words", len(words)).Msg("loaded word list")
	return &WordList{name: name, words: words}, nil
}

// LoadWordListFile reads a word list from a file on disk.
func LoadWordListFile(path string) (*WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()
	return LoadWordList(strings.TrimSuffix(f.Name(), ".txt"), f)
}

func (w *WordList) Name() string { return w.name }

// HasWord reports whether the word is in the list.
func (w *WordList) HasWord(ctx context.Context, word string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := w.words[strings.ToUpper(word)]
	return ok, nil
}
