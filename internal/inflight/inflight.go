// Package inflight guards mutations keyed by resource id so a second
// request for the same key is rejected while one is still pending.
// Rapid duplicate clicks would otherwise race with last-response-wins.
package inflight

import (
	"errors"
	"sync"
)

var ErrBusy = errors.New("mutation already in flight")

type Guard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{keys: make(map[string]struct{})}
}

// Acquire claims the key. The returned release function must be called
// once the mutation finishes.
func (g *Guard) Acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.keys[key]; busy {
		return nil, ErrBusy
	}
	g.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether a mutation for key is pending, for per-row
// spinner state.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.keys[key]
	return busy
}
