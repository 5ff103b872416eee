// internal/lobby/timer.go
package lobby

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quickfire-games/mathrush/internal/models"
)

// sessionTimer is the cancellable handle for one round's countdown. A
// running timer exists for a lobby if and only if its game is active;
// the coordinator's timers map is the single source of truth, and a
// timer instance that is no longer registered there never touches
// store state again.
type sessionTimer struct {
	code   string
	cancel context.CancelFunc
	done   chan struct{}
}

// startTimerLocked registers and starts the countdown for a lobby.
// Caller holds the lobby mutex.
func (c *Coordinator) startTimerLocked(code string) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &sessionTimer{
		code:   code,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.timersMu.Lock()
	if old, ok := c.timers[code]; ok {
		// A stale timer here means a previous round was not torn down
		// cleanly; cancel it so it can never fire again.
		old.cancel()
	}
	c.timers[code] = t
	c.timersMu.Unlock()

	go c.runTimer(ctx, t)
}

// stopTimerLocked cancels and unregisters the lobby's timer, if any.
// Caller holds the lobby mutex, so a tick that is waiting on that mutex
// will observe the deregistration and bail out without mutating state.
func (c *Coordinator) stopTimerLocked(code string) {
	c.timersMu.Lock()
	t, ok := c.timers[code]
	if ok {
		delete(c.timers, code)
	}
	c.timersMu.Unlock()
	if ok {
		t.cancel()
	}
}

// isCurrent reports whether t is still the registered timer for its code.
func (c *Coordinator) isCurrent(t *sessionTimer) bool {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	return c.timers[t.code] == t
}

// dropTimer unregisters t if it is still current.
func (c *Coordinator) dropTimer(t *sessionTimer) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	if c.timers[t.code] == t {
		delete(c.timers, t.code)
	}
	t.cancel()
}

func (c *Coordinator) runTimer(ctx context.Context, t *sessionTimer) {
	defer close(t.done)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.tickOnce(t) {
				return
			}
		}
	}
}

// tickOnce applies one countdown tick. Returns true when the timer
// should stop: the lobby vanished, this instance was superseded or
// cancelled, or the round expired naturally.
func (c *Coordinator) tickOnce(t *sessionTimer) bool {
	lob, ok := c.store.Get(t.code)
	if !ok {
		// Lobby deleted concurrently, e.g. every player left.
		c.dropTimer(t)
		return true
	}

	lob.Mu.Lock()
	defer lob.Mu.Unlock()

	// Cancellation may have happened while this tick waited on the
	// lobby mutex; a deregistered instance must not mutate anything.
	if !c.isCurrent(t) {
		return true
	}

	lob.Game.TimeRemaining--
	if lob.Game.TimeRemaining < 0 {
		lob.Game.TimeRemaining = 0
	}
	c.bcast.BroadcastToGroup(t.code, EventTimerUpdate, lob.Game.TimeRemaining)

	if lob.Game.TimeRemaining > 0 {
		return false
	}

	c.finishRoundLocked(lob)
	c.dropTimer(t)
	return true
}

// finishRoundLocked ends the round at natural expiry: flags flipped,
// standings computed and broadcast, round record handed to the recorder.
// Caller holds the lobby mutex.
func (c *Coordinator) finishRoundLocked(lob *models.Lobby) {
	lob.Game.IsActive = false
	lob.Game.IsEnded = true
	lob.Game.TimeRemaining = 0
	lob.IsGameActive = false

	standings := finalStandings(lob)
	c.bcast.BroadcastToGroup(lob.Code, EventGameEnded, standings)
	c.log.WithFields(logrus.Fields{"lobby": lob.Code, "players": len(standings)}).Info("game ended")

	if c.recorder != nil {
		rec := RoundRecord{
			LobbyCode:  lob.Code,
			Settings:   lob.Settings,
			FinishedAt: time.Now().Unix(),
		}
		for _, p := range standings {
			rec.Standings = append(rec.Standings, RoundScore{PlayerID: p.ID, Name: p.Name, Score: p.Score})
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.recorder.RecordRound(ctx, rec); err != nil {
				c.log.Warnf("record round %s: %v", rec.LobbyCode, err)
			}
		}()
	}
}

// finalStandings returns copies of the players sorted by score
// descending; ties keep join order (stable sort).
func finalStandings(lob *models.Lobby) []*models.Player {
	snap := lob.Snapshot()
	sort.SliceStable(snap.Players, func(i, j int) bool {
		return snap.Players[i].Score > snap.Players[j].Score
	})
	return snap.Players
}
