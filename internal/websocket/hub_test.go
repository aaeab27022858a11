package websocket

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-assistant-be/internal/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	hub := NewHub(log)
	go hub.Run()
	return hub
}

func registerClient(t *testing.T, hub *Hub, chatID string, buffer int) *Client {
	t.Helper()
	client := &Client{
		Hub:    hub,
		ID:     uuid.NewString(),
		ChatID: chatID,
		Send:   make(chan []byte, buffer),
	}
	before := clientCount(hub, chatID)
	hub.register <- client
	// The register channel rendezvous completes before Run inserts the
	// client; wait until the registration is applied so delivery tests
	// don't race it.
	require.Eventually(t, func() bool {
		return clientCount(hub, chatID) == before+1
	}, time.Second, 10*time.Millisecond, "client registration not applied")
	return client
}

func clientCount(hub *Hub, chatID string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients[chatID])
}

func TestHubSendReachesAllChatClients(t *testing.T) {
	hub := newTestHub(t)
	a := registerClient(t, hub, "chat1", 4)
	b := registerClient(t, hub, "chat1", 4)
	other := registerClient(t, hub, "chat2", 4)

	require.NoError(t, hub.Send("chat1", "привет"))

	for _, c := range []*Client{a, b} {
		select {
		case frame := <-c.Send:
			assert.Contains(t, string(frame), "привет")
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
	assert.Empty(t, other.Send)
}

func TestHubEvictsClientWithFullBuffer(t *testing.T) {
	hub := newTestHub(t)
	stuck := registerClient(t, hub, "chat1", 0)
	healthy := registerClient(t, hub, "chat1", 4)

	// Nothing drains the stuck client; delivery must survive it and drop
	// only that connection.
	require.NoError(t, hub.Send("chat1", "hello"))
	require.NoError(t, hub.Send("chat1", "again"))

	require.Eventually(t, func() bool {
		return clientCount(hub, "chat1") == 1
	}, time.Second, 10*time.Millisecond, "stuck client should be unregistered")

	// The hub closed the evicted channel exactly once.
	select {
	case _, open := <-stuck.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("evicted Send channel was not closed")
	}
	assert.Len(t, healthy.Send, 2)
}

func TestHubBroadcastEventSkipsStuckClients(t *testing.T) {
	hub := newTestHub(t)
	stuck := registerClient(t, hub, "chat1", 0)
	healthy := registerClient(t, hub, "chat2", 4)

	hub.BroadcastEvent("kb_changed", map[string]string{"filename": "a.txt"})

	select {
	case frame := <-healthy.Send:
		assert.Contains(t, string(frame), "kb_changed")
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}

	require.Eventually(t, func() bool {
		return clientCount(hub, "chat1") == 0
	}, time.Second, 10*time.Millisecond)
	_, open := <-stuck.Send
	assert.False(t, open)
}

func TestHubUnregisterTwiceIsSafe(t *testing.T) {
	hub := newTestHub(t)
	client := registerClient(t, hub, "chat1", 1)

	hub.unregister <- client
	hub.unregister <- client

	require.Eventually(t, func() bool {
		return clientCount(hub, "chat1") == 0
	}, time.Second, 10*time.Millisecond)

	// A later send to the chat is a no-op, not a panic.
	require.NoError(t, hub.Send("chat1", "ghost"))
}
