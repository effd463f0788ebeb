// internal/store/memory.go
//
// In-memory store of live game sessions.
//
// Characteristics:
//   - Stores *Entry values (session + owner) keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Each Session serializes its own Submit/Restart calls; the store only
//     guards the map.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordscramble/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Entry is a live session and the player it belongs to.
type Entry struct {
	Session     *game.Session
	UserID      string // set when started by a signed-in player
	AnonymousID string // guest cookie of the browser that started it
}

// OwnedBy reports whether the requester (user id and/or anonymous id) may use e.
func (e *Entry) OwnedBy(userID, anonID string) bool {
	return (e.UserID != "" && e.UserID == userID) ||
		(e.AnonymousID != "" && e.AnonymousID == anonID)
}

// Store defines the interface for live game sessions.
type Store interface {
	// Save adds or replaces an entry, keyed by its session ID.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves an entry by session ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete drops a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Entry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Entry)}
}

func (m *memory) Save(ctx context.Context, e *Entry) error {
	if e == nil || e.Session == nil {
		return errors.New("store: entry has no session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[e.Session.ID()] = e
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
