// internal/handlers/rooms_test.go
package handlers

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRooms() *Rooms {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRooms(logger)
}

func drain(ch <-chan Envelope) []Envelope {
	var out []Envelope
	for {
		select {
		case env, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestSendToDeliversToRegisteredConnection(t *testing.T) {
	r := newTestRooms()
	ch, _ := r.Register("c1")

	r.SendTo("c1", "hello", 42)
	r.SendTo("nobody", "hello", 42)

	got := drain(ch)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Type)
	assert.Equal(t, 42, got[0].Payload)
}

func TestBroadcastToGroupHitsOnlyMembers(t *testing.T) {
	r := newTestRooms()
	ch1, _ := r.Register("c1")
	ch2, _ := r.Register("c2")
	ch3, _ := r.Register("c3")
	r.JoinGroup("c1", "ABCD")
	r.JoinGroup("c2", "ABCD")

	r.BroadcastToGroup("ABCD", "ping", nil)

	assert.Len(t, drain(ch1), 1)
	assert.Len(t, drain(ch2), 1)
	assert.Empty(t, drain(ch3))
}

func TestLeaveGroupStopsDelivery(t *testing.T) {
	r := newTestRooms()
	ch, _ := r.Register("c1")
	r.JoinGroup("c1", "ABCD")
	r.LeaveGroup("c1", "ABCD")

	r.BroadcastToGroup("ABCD", "ping", nil)
	assert.Empty(t, drain(ch))
}

func TestUnregisterClosesChannelAndLeavesGroups(t *testing.T) {
	r := newTestRooms()
	ch, gen := r.Register("c1")
	r.JoinGroup("c1", "ABCD")

	assert.True(t, r.Unregister("c1", gen))

	_, open := <-ch
	assert.False(t, open, "unregister must close the outbound channel")

	r.BroadcastToGroup("ABCD", "ping", nil)
	r.SendTo("c1", "ping", nil) // must not panic on a gone connection
}

func TestReconnectReplacesOldChannel(t *testing.T) {
	r := newTestRooms()
	old, _ := r.Register("c1")
	fresh, _ := r.Register("c1")

	_, open := <-old
	assert.False(t, open, "reconnect must close the superseded channel")

	r.SendTo("c1", "hello", nil)
	assert.Len(t, drain(fresh), 1)
}

func TestReconnectKeepsGroupDelivery(t *testing.T) {
	r := newTestRooms()
	old, _ := r.Register("c1")
	r.JoinGroup("c1", "ABCD")

	fresh, _ := r.Register("c1")

	// Broadcasting to a group with a superseded member must neither
	// panic nor drop the member: the id resolves to the fresh channel.
	r.BroadcastToGroup("ABCD", "ping", nil)

	assert.Empty(t, drain(old))
	got := drain(fresh)
	require.Len(t, got, 1)
	assert.Equal(t, "ping", got[0].Type)
}

func TestUnregisterStaleTokenKeepsFreshRegistration(t *testing.T) {
	r := newTestRooms()
	_, oldGen := r.Register("c1")
	r.JoinGroup("c1", "ABCD")
	fresh, _ := r.Register("c1")

	// The superseded handler's teardown must not touch the reconnect.
	assert.False(t, r.Unregister("c1", oldGen))

	r.SendTo("c1", "hello", nil)
	got := drain(fresh)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Type)

	r.BroadcastToGroup("ABCD", "ping", nil)
	assert.Len(t, drain(fresh), 1, "group membership survives the stale unregister")

	select {
	case _, open := <-fresh:
		assert.True(t, open, "fresh channel must stay open")
	default:
	}
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	r := newTestRooms()
	ch, _ := r.Register("c1")

	// One more than the channel buffer; the overflow message is dropped.
	for i := 0; i < 17; i++ {
		r.SendTo("c1", "tick", i)
	}

	got := drain(ch)
	assert.Len(t, got, 16)
	assert.Equal(t, 0, got[0].Payload)
	assert.Equal(t, 15, got[len(got)-1].Payload)
}
