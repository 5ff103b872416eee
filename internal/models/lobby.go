// internal/models/lobby.go
package models

import "sync"

// Question is a single generated arithmetic problem. Immutable once
// generated; IDs are 1-based and unique within a batch.
type Question struct {
	ID        int    `json:"id"`
	Equation  string `json:"equation"`
	Answer    int    `json:"answer"`
	Operation string `json:"operation"`
}

// GameState is the per-round state of a lobby. It is replaced wholesale
// when a round starts and reset to empty when returning to the lobby.
//
// The ComboCount/IsComboActive/ComboTimeRemaining fields are display
// state consumed by clients; combo tracking itself is per-player.
type GameState struct {
	IsActive           bool       `json:"isActive"`
	IsEnded            bool       `json:"isEnded"`
	Questions          []Question `json:"questions"`
	TimeRemaining      int        `json:"timeRemaining"`
	ComboCount         int        `json:"comboCount"`
	IsComboActive      bool       `json:"isComboActive"`
	ComboTimeRemaining int        `json:"comboTimeRemaining"`
}

// QuestionByID returns the question with the given id from the current
// batch, or nil if no such question exists.
func (g *GameState) QuestionByID(id int) *Question {
	for i := range g.Questions {
		if g.Questions[i].ID == id {
			return &g.Questions[i]
		}
	}
	return nil
}

// Lobby is an ephemeral group of players sharing one game session,
// identified by a 4-letter code. Players keeps join order; order matters
// for deterministic host succession.
type Lobby struct {
	Code         string    `json:"code"`
	Players      []*Player `json:"players"`
	Settings     Settings  `json:"settings"`
	Game         GameState `json:"gameState"`
	HostID       string    `json:"host"`
	IsGameActive bool      `json:"isGameActive"`

	// Mu serializes all state transitions against this lobby. Every
	// coordinator action and timer tick runs under it.
	Mu sync.Mutex `json:"-"`
}

// NewLobby creates a lobby with the creator as its sole, non-ready host.
func NewLobby(code string, host *Player) *Lobby {
	host.IsHost = true
	return &Lobby{
		Code:     code,
		Players:  []*Player{host},
		Settings: DefaultSettings(),
		HostID:   host.ID,
	}
}

// PlayerByID returns the player with the given connection id, or nil.
func (l *Lobby) PlayerByID(id string) *Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer deletes the player with the given id, preserving the
// join order of the rest. Returns the removed player, or nil.
func (l *Lobby) RemovePlayer(id string) *Player {
	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return p
		}
	}
	return nil
}

// AllReady reports whether every player has readied up. An empty lobby
// is never ready.
func (l *Lobby) AllReady() bool {
	if len(l.Players) == 0 {
		return false
	}
	for _, p := range l.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// Snapshot returns a deep copy safe to hand to the broadcast layer,
// which marshals it outside the lobby lock.
func (l *Lobby) Snapshot() *Lobby {
	players := make([]*Player, len(l.Players))
	for i, p := range l.Players {
		cp := *p
		cp.Answered = nil
		players[i] = &cp
	}
	questions := make([]Question, len(l.Game.Questions))
	copy(questions, l.Game.Questions)
	game := l.Game
	game.Questions = questions
	return &Lobby{
		Code:         l.Code,
		Players:      players,
		Settings:     l.Settings,
		Game:         game,
		HostID:       l.HostID,
		IsGameActive: l.IsGameActive,
	}
}
