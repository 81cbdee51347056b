package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeSocket records written frames and blocks reads until closed.
type fakeSocket struct {
	written chan []byte
	closed  chan struct{}
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		written: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeSocket) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, context.Canceled
}

func (f *fakeSocket) WriteMessage(_ int, data []byte) error {
	f.written <- data
	return nil
}

func (f *fakeSocket) SetReadLimit(int64)                {}
func (f *fakeSocket) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeSocket) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeSocket) SetPongHandler(func(string) error) {}
func (f *fakeSocket) Close() error                      { close(f.closed); return nil }

func startConnection(t *testing.T, hub *Hub, userID int64) (*fakeSocket, context.CancelFunc) {
	t.Helper()
	socket := newFakeSocket()
	ctx, cancel := context.WithCancel(context.Background())

	var conn *Connection
	conn = NewConnection(userID, socket, time.Second, zap.NewNop(), func() {
		hub.Remove(userID, conn)
	})
	hub.Add(userID, conn)
	go conn.writePump(ctx)
	return socket, cancel
}

func TestHubPublishDeliversToUserOnly(t *testing.T) {
	hub := NewHub(time.Minute, zap.NewNop())
	socketA, cancelA := startConnection(t, hub, 1)
	defer cancelA()
	socketB, cancelB := startConnection(t, hub, 2)
	defer cancelB()

	hub.Publish(1, "reading_saved", map[string]interface{}{"reading": 512.5})

	select {
	case data := <-socketA.written:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != "reading_saved" {
			t.Errorf("event type = %s, want reading_saved", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to user 1")
	}

	select {
	case <-socketB.written:
		t.Fatal("event leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRemoveStopsDelivery(t *testing.T) {
	hub := NewHub(time.Minute, zap.NewNop())
	socket, cancel := startConnection(t, hub, 1)
	defer cancel()

	if got := hub.ConnectionCount(1); got != 1 {
		t.Fatalf("connection count = %d, want 1", got)
	}

	hub.mu.Lock()
	var conn *Connection
	for c := range hub.clients[1] {
		conn = c
	}
	hub.mu.Unlock()
	hub.Remove(1, conn)

	if got := hub.ConnectionCount(1); got != 0 {
		t.Fatalf("connection count = %d, want 0 after remove", got)
	}

	hub.Publish(1, "estimate_updated", nil)
	select {
	case <-socket.written:
		t.Fatal("event delivered after removal")
	case <-time.After(50 * time.Millisecond):
	}
}
