package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "room1",
	}

	hub.register <- client

	hub.Publish("room1", EventBookingCreated, map[string]string{"bookingId": "b1"})

	select {
	case got := <-client.Send:
		var msg Message
		if err := json.Unmarshal(got, &msg); err != nil {
			t.Fatalf("invalid JSON broadcast: %v", err)
		}
		if msg.Event != EventBookingCreated {
			t.Fatalf("expected event %q, got %q", EventBookingCreated, msg.Event)
		}
		if msg.RoomID != "room1" {
			t.Fatalf("expected room1, got %q", msg.RoomID)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestRegisterAfterStopReturnsImmediately(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan bool, 1)
	go func() {
		done <- hub.Register(&Client{Send: make(chan []byte, 1), Room: "room1"})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("Register reported success on a stopped hub")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Register blocked on a stopped hub")
	}
}

func TestHubIsolatesRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), Room: "roomA"}
	b := &Client{Send: make(chan []byte, 10), Room: "roomB"}
	hub.register <- a
	hub.register <- b

	hub.Publish("roomA", EventBookingStatus, nil)

	select {
	case <-a.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("roomA subscriber did not receive event")
	}

	select {
	case <-b.Send:
		t.Fatal("roomB subscriber received roomA event")
	case <-time.After(100 * time.Millisecond):
	}
}
