// internal/lobby/coordinator.go
package lobby

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quickfire-games/mathrush/internal/game"
	"github.com/quickfire-games/mathrush/internal/models"
)

// Validation errors surfaced through acks or swallowed per action policy.
var (
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrAlreadyInLobby   = errors.New("already in a lobby")
	ErrNotInLobby       = errors.New("not in a lobby")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotAllReady      = errors.New("not all players are ready")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrGameNotActive    = errors.New("no active game")
	ErrGameNotEnded     = errors.New("game has not ended")
	ErrUnknownQuestion  = errors.New("unknown question id")
	ErrDuplicateAnswer  = errors.New("question already answered")
	ErrPlayerNotInLobby = errors.New("player not in lobby")
)

// GenerateFunc produces an ordered question batch from lobby settings.
type GenerateFunc func(models.Settings) []models.Question

// RoundScore is one player's final standing in a completed round.
type RoundScore struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// RoundRecord describes a naturally completed round, published to the
// history queue when a recorder is configured.
type RoundRecord struct {
	LobbyCode  string          `json:"lobby_code"`
	Settings   models.Settings `json:"settings"`
	Standings  []RoundScore    `json:"standings"`
	FinishedAt int64           `json:"finished_at"`
}

// RoundRecorder receives completed round records. Implementations must
// tolerate being called concurrently.
type RoundRecorder interface {
	RecordRound(ctx context.Context, rec RoundRecord) error
}

// Coordinator validates and applies every player action against the
// store, invoking the scoring engine and session timers as needed, and
// emits outbound broadcast events.
//
// All transitions for one lobby run under that lobby's mutex: reads,
// mutation, and the broadcasts reflecting the transition happen before
// the lock is released, so no action observes a half-applied state.
// Actions on different lobbies proceed in parallel.
type Coordinator struct {
	log      *logrus.Logger
	store    *Store
	bcast    Broadcaster
	generate GenerateFunc
	recorder RoundRecorder
	tick     time.Duration

	timersMu sync.Mutex
	timers   map[string]*sessionTimer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGenerator overrides the question batch generator.
func WithGenerator(fn GenerateFunc) Option {
	return func(c *Coordinator) { c.generate = fn }
}

// WithRecorder attaches a round-history recorder.
func WithRecorder(r RoundRecorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithTickInterval overrides the session timer tick. Tests use
// millisecond ticks; production always runs at one second.
func WithTickInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.tick = d }
}

// New constructs a Coordinator around an injected store and broadcaster.
func New(log *logrus.Logger, store *Store, bcast Broadcaster, opts ...Option) *Coordinator {
	c := &Coordinator{
		log:      log,
		store:    store,
		bcast:    bcast,
		generate: game.GenerateBatch,
		tick:     time.Second,
		timers:   make(map[string]*sessionTimer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateLobby creates a new lobby with the caller as its sole, non-ready
// host and acks the creator with the initial snapshot.
func (c *Coordinator) CreateLobby(connID, name string) {
	if _, ok := c.store.Locate(connID); ok {
		c.bcast.SendTo(connID, EventLobbyCreated, ackErr(ErrAlreadyInLobby))
		return
	}

	host := models.NewPlayer(connID, displayName(name, connID), true)
	lob, err := c.createWithUniqueCode(host)
	if err != nil {
		c.log.WithField("conn", connID).Warnf("create lobby: %v", err)
		c.bcast.SendTo(connID, EventLobbyCreated, ackErr(err))
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()
	c.bcast.JoinGroup(connID, lob.Code)
	c.bcast.SendTo(connID, EventLobbyCreated, ackOK(lob.Snapshot()))
	c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID}).Info("lobby created")
}

// JoinLobby appends the caller to an existing lobby as a non-host,
// non-ready player, acks the joiner, and notifies the room.
func (c *Coordinator) JoinLobby(connID, code, name string) {
	if _, ok := c.store.Locate(connID); ok {
		c.bcast.SendTo(connID, EventLobbyJoined, ackErr(ErrAlreadyInLobby))
		return
	}
	lob, ok := c.store.Get(code)
	if !ok {
		c.bcast.SendTo(connID, EventLobbyJoined, ackErr(ErrLobbyNotFound))
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()
	// The lobby may have emptied and been deleted between Get and Lock.
	if !c.store.Exists(code) {
		c.bcast.SendTo(connID, EventLobbyJoined, ackErr(ErrLobbyNotFound))
		return
	}

	lob.Players = append(lob.Players, models.NewPlayer(connID, displayName(name, connID), false))
	c.store.Bind(connID, code)
	c.bcast.JoinGroup(connID, code)

	snap := lob.Snapshot()
	c.bcast.SendTo(connID, EventLobbyJoined, ackOK(snap))
	c.bcast.BroadcastToGroup(code, EventLobbyUpdated, snap)
	c.log.WithFields(logrus.Fields{"lobby": code, "conn": connID}).Info("player joined")
}

// Leave removes the caller from its lobby. Used for both an explicit
// leave action and a transport disconnect. An emptied lobby is deleted
// immediately and its timer cancelled; if the host left, the first
// remaining player in join order is promoted.
func (c *Coordinator) Leave(connID string) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	removed := lob.RemovePlayer(connID)
	c.store.Unbind(connID)
	c.bcast.LeaveGroup(connID, lob.Code)
	if removed == nil {
		return
	}

	if len(lob.Players) == 0 {
		c.stopTimerLocked(lob.Code)
		c.store.Delete(lob.Code)
		c.log.WithField("lobby", lob.Code).Info("lobby emptied, deleted")
		return
	}

	if removed.IsHost {
		next := lob.Players[0]
		next.IsHost = true
		lob.HostID = next.ID
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "host": next.ID}).Info("host promoted")
	}

	c.bcast.BroadcastToGroup(lob.Code, EventLobbyUpdated, lob.Snapshot())
}

// ToggleReady flips the caller's ready flag, acks the caller, and
// notifies the room.
func (c *Coordinator) ToggleReady(connID string) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		c.bcast.SendTo(connID, EventReadyToggled, ackErr(ErrNotInLobby))
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	p := lob.PlayerByID(connID)
	if p == nil {
		c.bcast.SendTo(connID, EventReadyToggled, ackErr(ErrPlayerNotInLobby))
		return
	}
	p.IsReady = !p.IsReady

	snap := lob.Snapshot()
	c.bcast.SendTo(connID, EventReadyToggled, ackOK(snap))
	c.bcast.BroadcastToGroup(lob.Code, EventLobbyUpdated, snap)
}

// UpdateSettings shallow-merges a validated settings patch. Host only.
// Fire-and-forget: precondition failures are logged and dropped.
func (c *Coordinator) UpdateSettings(connID string, patch models.SettingsPatch) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		c.log.WithField("conn", connID).Debug("update-settings from connection without lobby")
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	if lob.HostID != connID {
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID}).Debug("update-settings from non-host")
		return
	}
	if err := patch.Validate(); err != nil {
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID}).Debugf("rejected settings patch: %v", err)
		return
	}

	lob.Settings.ApplyPatch(patch)
	c.bcast.BroadcastToGroup(lob.Code, EventLobbyUpdated, lob.Snapshot())
}

// StartGame begins a round: generates the question batch, installs a
// fresh GameState, and starts the session timer. Host only, all players
// ready. Fire-and-forget on precondition failure.
func (c *Coordinator) StartGame(connID string) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	if err := c.canStartLocked(lob, connID); err != nil {
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID}).Debugf("start-game rejected: %v", err)
		return
	}

	// Question IDs restart at 1 each round, so stale answer sets from a
	// previous round must not block the new batch.
	for _, p := range lob.Players {
		p.Answered = make(map[int]bool)
	}

	lob.Game = models.GameState{
		IsActive:      true,
		Questions:     c.generate(lob.Settings),
		TimeRemaining: lob.Settings.RoundDuration,
	}
	lob.IsGameActive = true
	c.startTimerLocked(lob.Code)

	c.bcast.BroadcastToGroup(lob.Code, EventGameStarted, lob.Snapshot().Game)
	c.log.WithFields(logrus.Fields{
		"lobby":     lob.Code,
		"questions": len(lob.Game.Questions),
		"duration":  lob.Settings.RoundDuration,
	}).Info("game started")
}

func (c *Coordinator) canStartLocked(lob *models.Lobby, connID string) error {
	if lob.HostID != connID {
		return ErrNotHost
	}
	if lob.IsGameActive {
		return ErrGameInProgress
	}
	if !lob.AllReady() {
		return ErrNotAllReady
	}
	return nil
}

// SubmitAnswer scores one answer for the caller. The question must be
// part of the current batch and not already answered by this player.
// Fire-and-forget on precondition failure.
func (c *Coordinator) SubmitAnswer(connID string, questionID, answer int, elapsedMs int64) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	p := lob.PlayerByID(connID)
	if err := validateAnswerLocked(lob, p, questionID); err != nil {
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID, "question": questionID}).Debugf("submit-answer rejected: %v", err)
		return
	}

	q := lob.Game.QuestionByID(questionID)
	p.Answered[questionID] = true

	if elapsedMs < 0 {
		elapsedMs = 0
	}
	delta, combo := game.Score(p.ComboCount, answer == q.Answer, elapsedMs)
	p.Score = game.ApplyDelta(p.Score, delta)
	p.ComboCount = combo

	c.bcast.BroadcastToGroup(lob.Code, EventLobbyUpdated, lob.Snapshot())
}

func validateAnswerLocked(lob *models.Lobby, p *models.Player, questionID int) error {
	if !lob.IsGameActive {
		return ErrGameNotActive
	}
	if p == nil {
		return ErrPlayerNotInLobby
	}
	if lob.Game.QuestionByID(questionID) == nil {
		return ErrUnknownQuestion
	}
	if p.Answered[questionID] {
		return ErrDuplicateAnswer
	}
	return nil
}

// ReturnToLobby resets the lobby to its pre-game state after a round
// has ended: player scores/combos/ready flags cleared (host preserved),
// GameState emptied, any leftover timer cancelled. Host only,
// fire-and-forget on precondition failure.
func (c *Coordinator) ReturnToLobby(connID string) {
	lob, ok := c.store.Locate(connID)
	if !ok {
		return
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	if lob.HostID != connID {
		c.log.WithFields(logrus.Fields{"lobby": lob.Code, "conn": connID}).Debug("return-to-lobby from non-host")
		return
	}
	if !lob.Game.IsEnded {
		c.log.WithField("lobby", lob.Code).Debugf("return-to-lobby rejected: %v", ErrGameNotEnded)
		return
	}

	c.stopTimerLocked(lob.Code)
	for _, p := range lob.Players {
		p.ResetForLobby()
	}
	lob.Game = models.GameState{}
	lob.IsGameActive = false

	c.bcast.BroadcastToGroup(lob.Code, EventLobbyUpdated, lob.Snapshot())
	c.log.WithField("lobby", lob.Code).Info("returned to lobby")
}

// LobbyCount reports the number of live lobbies, for the health surface.
func (c *Coordinator) LobbyCount() int {
	return c.store.Len()
}

func displayName(name, connID string) string {
	if name != "" {
		return name
	}
	if len(connID) >= 4 {
		return fmt.Sprintf("Guest-%s", connID[:4])
	}
	return "Guest"
}
