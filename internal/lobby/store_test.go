// internal/lobby/store_test.go
package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickfire-games/mathrush/internal/models"
)

func newTestLobby(code, hostID string) *models.Lobby {
	return models.NewLobby(code, models.NewPlayer(hostID, "host", true))
}

func TestStoreCreateAndGet(t *testing.T) {
	s := NewStore()
	lob := newTestLobby("ABCD", "conn-1")

	require.True(t, s.Create(lob))
	assert.False(t, s.Create(newTestLobby("ABCD", "conn-2")), "duplicate code must be rejected")

	got, ok := s.Get("ABCD")
	require.True(t, ok)
	assert.Same(t, lob, got)
	assert.Equal(t, 1, s.Len())
}

func TestStoreCreateBindsHostConnection(t *testing.T) {
	s := NewStore()
	require.True(t, s.Create(newTestLobby("ABCD", "conn-1")))

	got, ok := s.Locate("conn-1")
	require.True(t, ok)
	assert.Equal(t, "ABCD", got.Code)
}

func TestStoreBindUnbind(t *testing.T) {
	s := NewStore()
	require.True(t, s.Create(newTestLobby("ABCD", "conn-1")))

	s.Bind("conn-2", "ABCD")
	got, ok := s.Locate("conn-2")
	require.True(t, ok)
	assert.Equal(t, "ABCD", got.Code)

	s.Unbind("conn-2")
	_, ok = s.Locate("conn-2")
	assert.False(t, ok, "stale reverse-index entry after unbind")
}

func TestStoreDeleteCleansReverseIndex(t *testing.T) {
	s := NewStore()
	require.True(t, s.Create(newTestLobby("ABCD", "conn-1")))
	s.Bind("conn-2", "ABCD")

	s.Delete("ABCD")

	assert.False(t, s.Exists("ABCD"))
	_, ok := s.Locate("conn-1")
	assert.False(t, ok)
	_, ok = s.Locate("conn-2")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStoreLocateUnknownConnection(t *testing.T) {
	s := NewStore()
	_, ok := s.Locate("nobody")
	assert.False(t, ok)
}
