// internal/handlers/rooms.go
package handlers

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Envelope is the outbound wire format: an event name plus its payload.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// client is a single registered connection: an id, the registration
// generation that minted it, and a buffered outbound channel drained by
// its write pump. The client's own mutex orders writes against close,
// so a send can never race a teardown.
type client struct {
	id  string
	gen uint64

	mu     sync.Mutex
	closed bool
	out    chan Envelope
}

// write pushes an envelope non-blockingly. Messages to a slow or closed
// connection are dropped, never retried.
func (cl *client) write(log *logrus.Logger, env Envelope) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.closed {
		return
	}
	select {
	case cl.out <- env:
	default:
		log.WithFields(logrus.Fields{"conn": cl.id, "event": env.Type}).Warn("outbound channel full, dropped event")
	}
}

// shutdown closes the outbound channel exactly once.
func (cl *client) shutdown() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.out)
	}
}

// Rooms is the connection registry and named-group broadcast primitive.
// It implements lobby.Broadcaster. Group membership is driven entirely
// by the coordinator (JoinGroup/LeaveGroup around lobby membership).
//
// Groups hold connection ids, not client pointers; ids resolve through
// the registry at send time, so a reconnect that replaces a client keeps
// its group memberships and receives subsequent broadcasts on the fresh
// channel.
type Rooms struct {
	log *logrus.Logger

	mu      sync.RWMutex
	gen     uint64
	clients map[string]*client
	groups  map[string]map[string]struct{}
}

// NewRooms returns an empty registry.
func NewRooms(log *logrus.Logger) *Rooms {
	return &Rooms{
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]struct{}),
		log:     log,
	}
}

// Register adds a connection and returns its outbound channel together
// with a registration token for Unregister. If the same id is already
// registered (a reconnect), the previous channel is closed so its write
// pump exits; the old handler's Unregister then no-ops on the stale
// token instead of tearing down this registration.
func (r *Rooms) Register(connID string) (<-chan Envelope, uint64) {
	r.mu.Lock()
	if old, ok := r.clients[connID]; ok {
		old.shutdown()
	}
	r.gen++
	cl := &client{id: connID, gen: r.gen, out: make(chan Envelope, 16)}
	r.clients[connID] = cl
	r.mu.Unlock()

	return cl.out, cl.gen
}

// Unregister removes the connection and its group memberships, but only
// if gen still identifies the registered client; after a reconnect the
// superseded handler's token no longer matches and nothing is touched.
// Reports whether the teardown happened.
func (r *Rooms) Unregister(connID string, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cl, ok := r.clients[connID]
	if !ok || cl.gen != gen {
		return false
	}
	delete(r.clients, connID)
	for group, members := range r.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.groups, group)
		}
	}
	cl.shutdown()
	return true
}

// JoinGroup adds the connection to a named group.
func (r *Rooms) JoinGroup(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[connID]; !ok {
		return
	}
	members, ok := r.groups[group]
	if !ok {
		members = make(map[string]struct{})
		r.groups[group] = members
	}
	members[connID] = struct{}{}
}

// LeaveGroup removes the connection from a named group, dropping the
// group once empty.
func (r *Rooms) LeaveGroup(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.groups, group)
	}
}

// SendTo delivers an event to one connection.
func (r *Rooms) SendTo(connID, event string, payload interface{}) {
	r.mu.RLock()
	cl, ok := r.clients[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	cl.write(r.log, Envelope{Type: event, Payload: payload})
}

// BroadcastToGroup delivers an event to every connection in a group.
// Member ids resolve to their current clients under the read lock; the
// writes themselves happen outside it.
func (r *Rooms) BroadcastToGroup(group, event string, payload interface{}) {
	r.mu.RLock()
	members := make([]*client, 0, len(r.groups[group]))
	for id := range r.groups[group] {
		if cl, ok := r.clients[id]; ok {
			members = append(members, cl)
		}
	}
	r.mu.RUnlock()

	env := Envelope{Type: event, Payload: payload}
	for _, cl := range members {
		cl.write(r.log, env)
	}
}
