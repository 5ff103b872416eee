// internal/models/player.go
package models

// Player is one connected participant in a lobby. The ID is the opaque
// connection identifier minted by the identity layer; it is unique per
// active connection.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsHost     bool   `json:"isHost"`
	IsReady    bool   `json:"isReady"`
	Score      int    `json:"score"`
	ComboCount int    `json:"comboCount"`

	// Answered tracks question IDs this player has already submitted,
	// so a question is never scored twice.
	Answered map[int]bool `json:"-"`
}

// NewPlayer returns a fresh non-ready player with an empty answer set.
func NewPlayer(id, name string, isHost bool) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		IsHost:   isHost,
		Answered: make(map[int]bool),
	}
}

// ResetForLobby clears round state (score, combo, readiness, answer set)
// while preserving identity and host status.
func (p *Player) ResetForLobby() {
	p.IsReady = false
	p.Score = 0
	p.ComboCount = 0
	p.Answered = make(map[int]bool)
}
