// Package store is the persistence gateway. The engine saves the whole
// game aggregate as one opaque blob after every committed turn; the
// store never sees partial state.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a key has no saved state.
var ErrNotFound = errors.New("store: game not found")

// Store persists full game state by key.
type Store interface {
	Save(ctx context.Context, key string, state []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// Mem is an in-memory store, for tests and ephemeral servers.
type Mem struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMem() *Mem {
	return &Mem{blobs: make(map[string][]byte)}
}

func (m *Mem) Save(ctx context.Context, key string, state []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := make([]byte, len(state))
	copy(cp, state)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = cp
	return nil
}

func (m *Mem) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

func (m *Mem) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}
	return keys, nil
}
