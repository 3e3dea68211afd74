package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClient(hub *Hub, userID string) *Client {
	return NewClient(hub, nil, userID)
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case message := <-c.Send:
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed message")
		return nil
	}
}

func TestHubRoutesEventsToOwner(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	owner := testClient(hub, "u-1")
	other := testClient(hub, "u-2")
	hub.Register <- owner
	hub.Register <- other

	hub.BroadcastTo("u-1", []byte(`{"action":"task.created"}`))

	message := receive(t, owner)
	assert.JSONEq(t, `{"action":"task.created"}`, string(message))

	select {
	case leaked := <-other.Send:
		t.Fatalf("event leaked to another user's connection: %s", leaked)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllOwnerConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := testClient(hub, "u-1")
	second := testClient(hub, "u-1")
	hub.Register <- first
	hub.Register <- second

	hub.BroadcastTo("u-1", []byte("ping"))

	assert.Equal(t, "ping", string(receive(t, first)))
	assert.Equal(t, "ping", string(receive(t, second)))
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := testClient(hub, "u-1")
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}

	// Events for a user with no connections go nowhere.
	hub.BroadcastTo("u-1", []byte("after"))
}

func TestHubBroadcastToUnknownUserDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastTo("nobody", []byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked with no registered clients")
	}
}
