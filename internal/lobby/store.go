// internal/lobby/store.go
package lobby

import (
	"sync"

	"github.com/quickfire-games/mathrush/internal/models"
)

// Store is the registry of live lobbies: code -> lobby, plus a
// connection-id -> code reverse index for O(1) lookup of which lobby a
// connection belongs to. The store mutex guards only the maps; state
// inside a lobby is guarded by that lobby's own mutex.
//
// The reverse index must stay consistent with every bind/unbind/delete;
// a stale entry routes actions to the wrong lobby.
type Store struct {
	mu      sync.RWMutex
	lobbies map[string]*models.Lobby
	byConn  map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		lobbies: make(map[string]*models.Lobby),
		byConn:  make(map[string]string),
	}
}

// Create adds a new lobby and binds its host's connection. Returns
// false if the code is already taken.
func (s *Store) Create(lob *models.Lobby) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lobbies[lob.Code]; exists {
		return false
	}
	s.lobbies[lob.Code] = lob
	s.byConn[lob.HostID] = lob.Code
	return true
}

// Get returns the lobby for code, if present.
func (s *Store) Get(code string) (*models.Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lob, ok := s.lobbies[code]
	return lob, ok
}

// Delete removes the lobby and any reverse-index entries pointing at it.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, code)
	for id, c := range s.byConn {
		if c == code {
			delete(s.byConn, id)
		}
	}
}

// Bind records that the connection belongs to the lobby with code.
func (s *Store) Bind(connID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byConn[connID] = code
}

// Unbind removes the connection's reverse-index entry.
func (s *Store) Unbind(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byConn, connID)
}

// Locate resolves a connection to its lobby via the reverse index.
func (s *Store) Locate(connID string) (*models.Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.byConn[connID]
	if !ok {
		return nil, false
	}
	lob, ok := s.lobbies[code]
	return lob, ok
}

// Exists reports whether a lobby with code is registered.
func (s *Store) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lobbies[code]
	return ok
}

// Len returns the number of live lobbies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lobbies)
}
