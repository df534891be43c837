// Package session serializes access to per-session player state. Engine
// operations are pure, but a session's state must have a single writer at a
// time; the gate gives each session key a queue of at most one in-flight
// request holder.
package session

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Gate hands out per-key locks. Lock entries are reference counted and
// removed when the last holder releases, so idle sessions cost nothing.
type Gate struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewGate() *Gate {
	return &Gate{entries: map[string]*entry{}}
}

// Acquire blocks until the caller holds the key's lock and returns the
// release function. Release must be called exactly once.
func (g *Gate) Acquire(key string) func() {
	g.mu.Lock()
	e, ok := g.entries[key]
	if !ok {
		e = &entry{}
		g.entries[key] = e
	}
	e.refs++
	g.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			g.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(g.entries, key)
			}
			g.mu.Unlock()
		})
	}
}
