package hostserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubBroadcastSnapshotIsRoomScoped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := &Client{hub: hub, send: make(chan []byte, 8), subscribed: make(map[string]bool)}
	c2 := &Client{hub: hub, send: make(chan []byte, 8), subscribed: make(map[string]bool)}

	hub.register <- c1
	hub.register <- c2
	hub.JoinGame(c1, "g1")
	hub.JoinGame(c2, "g2")

	msg := []byte(`{"type":"snapshot","gameId":"g1"}`)
	hub.BroadcastSnapshot("g1", msg)

	select {
	case got := <-c1.send:
		require.Equal(t, msg, got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for c1's room-scoped message")
	}

	select {
	case got := <-c2.send:
		t.Fatalf("c2 should not receive g1's broadcast, got: %s", got)
	case <-time.After(150 * time.Millisecond):
		// expected: c2 is subscribed to a different game
	}

	hub.unregister <- c1
	hub.unregister <- c2
}

func TestJoinGameIgnoresUnregisteredClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{hub: hub, send: make(chan []byte, 1), subscribed: make(map[string]bool)}
	hub.JoinGame(c, "g1") // never registered, must be a no-op

	require.Equal(t, 0, hub.ClientCount())
	hub.mu.RLock()
	subscribers := hub.gameSubscribers["g1"]
	hub.mu.RUnlock()
	require.Empty(t, subscribers)
}
