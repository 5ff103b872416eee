// internal/lobby/events.go
package lobby

import "github.com/quickfire-games/mathrush/internal/models"

// Outbound event names. Payload shapes are part of the client contract.
const (
	EventLobbyCreated = "lobby-created" // ack to creator: AckPayload
	EventLobbyJoined  = "lobby-joined"  // ack to joiner: AckPayload
	EventReadyToggled = "ready-toggled" // ack to caller: AckPayload
	EventLobbyUpdated = "lobby-updated" // room: lobby snapshot
	EventGameStarted  = "game-started"  // room: game state snapshot
	EventTimerUpdate  = "timer-update"  // room: seconds remaining (int)
	EventGameEnded    = "game-ended"    // room: players sorted by score desc
	EventError        = "error"         // single connection: message string
)

// AckPayload is the direct response for actions that have a response
// channel (create, join, toggle-ready). On failure only Error is set.
type AckPayload struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Lobby   *models.Lobby `json:"lobby,omitempty"`
}

// Broadcaster is the transport-side room/broadcast primitive the
// coordinator emits through. Implementations must not block: sends to
// slow or closed connections are dropped, never retried.
type Broadcaster interface {
	JoinGroup(connID, group string)
	LeaveGroup(connID, group string)
	SendTo(connID, event string, payload interface{})
	BroadcastToGroup(group, event string, payload interface{})
}

func ackOK(lobby *models.Lobby) AckPayload {
	return AckPayload{Success: true, Lobby: lobby}
}

func ackErr(err error) AckPayload {
	return AckPayload{Success: false, Error: err.Error()}
}
