// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/quickfire-games/mathrush/internal/auth"
	"github.com/quickfire-games/mathrush/internal/lobby"
	"github.com/quickfire-games/mathrush/internal/models"
)

// Subprotocol clients must speak on the game endpoint.
const Subprotocol = "mathrush"

// Inbound action names. These are the only actions the coordinator
// accepts; disconnects are implicit.
const (
	ActionCreateLobby    = "create-lobby"
	ActionJoinLobby      = "join-lobby"
	ActionLeaveLobby     = "leave-lobby"
	ActionToggleReady    = "toggle-ready"
	ActionUpdateSettings = "update-settings"
	ActionStartGame      = "start-game"
	ActionSubmitAnswer   = "submit-answer"
	ActionReturnToLobby  = "return-to-lobby"
)

// inboundMessage is the inbound wire format. Fields are relevant per
// action: Name for create/join, Code for join, Settings for
// update-settings, QuestionID/Answer/ElapsedMs for submit-answer.
type inboundMessage struct {
	Type       string                `json:"type"`
	Name       string                `json:"name,omitempty"`
	Code       string                `json:"code,omitempty"`
	Settings   *models.SettingsPatch `json:"settings,omitempty"`
	QuestionID int                   `json:"questionId,omitempty"`
	Answer     int                   `json:"answer,omitempty"`
	ElapsedMs  int64                 `json:"elapsedMs,omitempty"`
}

// GameWSHandler upgrades the connection, resolves the guest identity,
// registers the connection with the room registry, and runs the
// read/write pumps until the client goes away. On exit the connection
// is removed from its lobby exactly as if it had sent leave-lobby.
func GameWSHandler(logger *logrus.Logger, rooms *Rooms, coord *lobby.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The guest cookie must be set before the upgrade hijacks the
		// response headers.
		connID, err := auth.EnsureGuest(w, r)
		if err != nil {
			logger.Warnf("guest session: %v", err)
			http.Error(w, "could not establish session", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "client must speak the mathrush subprotocol")
			return
		}

		logger.WithFields(logrus.Fields{"conn": connID, "remote": r.RemoteAddr}).Info("websocket connected")

		out, gen := rooms.Register(connID)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, c, out, logger, connID)
		readPump(ctx, c, connID, coord, rooms, logger)

		// Read pump exited: treat as disconnect, unless a reconnect with
		// the same identity has already replaced this registration — then
		// the player stays in their lobby and the new handler owns cleanup.
		if rooms.Unregister(connID, gen) {
			coord.Leave(connID)
		}
		logger.WithField("conn", connID).Info("websocket disconnected")
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

// readPump decodes inbound envelopes and dispatches them to the
// coordinator until the connection closes or errors.
func readPump(ctx context.Context, c *websocket.Conn, connID string, coord *lobby.Coordinator, rooms *Rooms, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				logger.WithField("conn", connID).Warnf("read error: %v", err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			rooms.SendTo(connID, lobby.EventError, "invalid JSON")
			continue
		}

		dispatch(connID, msg, coord, rooms)
	}
}

// dispatch routes one inbound action to the coordinator. Unknown action
// types get an error event; everything else is validated downstream.
func dispatch(connID string, msg inboundMessage, coord *lobby.Coordinator, rooms *Rooms) {
	switch msg.Type {
	case ActionCreateLobby:
		coord.CreateLobby(connID, msg.Name)
	case ActionJoinLobby:
		coord.JoinLobby(connID, msg.Code, msg.Name)
	case ActionLeaveLobby:
		coord.Leave(connID)
	case ActionToggleReady:
		coord.ToggleReady(connID)
	case ActionUpdateSettings:
		if msg.Settings != nil {
			coord.UpdateSettings(connID, *msg.Settings)
		}
	case ActionStartGame:
		coord.StartGame(connID)
	case ActionSubmitAnswer:
		coord.SubmitAnswer(connID, msg.QuestionID, msg.Answer, msg.ElapsedMs)
	case ActionReturnToLobby:
		coord.ReturnToLobby(connID)
	default:
		rooms.SendTo(connID, lobby.EventError, "unknown action type: "+msg.Type)
	}
}

// writePump drains the connection's outbound channel onto the wire and
// keeps the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, out <-chan Envelope, logger *logrus.Logger, connID string) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-out:
			if !ok {
				return
			}
			data, err := json.Marshal(env)
			if err != nil {
				logger.WithField("conn", connID).Warnf("marshal %s: %v", env.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.WithField("conn", connID).Warnf("ping failed: %v", err)
				return
			}
		}
	}
}
