package websocket

import (
	"testing"
	"time"
)

func TestBroadcast_DeliversAndEvictsStalledClient(t *testing.T) {
	m := NewManager()
	go m.Start()

	// One client nobody reads from, one with room to receive.
	stalled := &Client{send: make(chan []byte), manager: m}
	live := &Client{send: make(chan []byte, 4), manager: m}
	m.register <- stalled
	m.register <- live

	m.broadcast <- []byte(`{"type":"reaction_update"}`)

	select {
	case msg := <-live.send:
		if len(msg) == 0 {
			t.Error("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered to live client")
	}

	// The stalled client is dropped and its send channel closed.
	select {
	case _, ok := <-stalled.send:
		if ok {
			t.Fatal("stalled client received a message instead of eviction")
		}
	case <-time.After(time.Second):
		t.Fatal("stalled client's send channel was not closed")
	}
}
