package relay

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	return ev
}

func TestBroadcast_ReachesAllObservers(t *testing.T) {
	hub, url := startHub(t)

	first := dial(t, url)
	second := dial(t, url)

	// Registration races the broadcast; give the hub a beat.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("new-order", map[string]any{"id": 1, "table_number": 5})

	for _, conn := range []*websocket.Conn{first, second} {
		ev := readEvent(t, conn)
		assert.Equal(t, "new-order", ev.Event)

		data := ev.Data.(map[string]any)
		assert.Equal(t, float64(1), data["id"])
		assert.Equal(t, float64(5), data["table_number"])
	}
}

func TestBroadcast_NoObserversDoesNotBlock(t *testing.T) {
	hub, _ := startHub(t)

	done := make(chan struct{})
	go func() {
		for range 200 {
			hub.Broadcast("order-status-updated", map[string]int{"id": 7})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no observers connected")
	}
}

func TestBroadcast_LateObserverMissesEarlierEvents(t *testing.T) {
	hub, url := startHub(t)

	hub.Broadcast("new-order", map[string]int{"id": 1})
	time.Sleep(50 * time.Millisecond)

	conn := dial(t, url)
	time.Sleep(50 * time.Millisecond)

	// No replay: only events after connection arrive.
	hub.Broadcast("new-order", map[string]int{"id": 2})

	ev := readEvent(t, conn)
	data := ev.Data.(map[string]any)
	assert.Equal(t, float64(2), data["id"])
}

func TestBroadcast_UnmarshalableDataDropped(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url)
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("bad", func() {}) // not serialisable, silently dropped
	hub.Broadcast("good", map[string]int{"id": 3})

	ev := readEvent(t, conn)
	assert.Equal(t, "good", ev.Event)
}
