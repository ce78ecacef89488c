package realtime

import (
	"testing"
	"time"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string]()
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster should exist for r1")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}
}

func TestRoomStore_BroadcasterUnknownRoom(t *testing.T) {
	s := NewRoomStore[string]()
	if _, ok := s.Broadcaster("ghost"); ok {
		t.Error("Broadcaster should not exist for an unknown room")
	}
	s.Publish("ghost", "event")
	if s.Len() != 0 {
		t.Error("Publish must not create rooms")
	}
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	if !s.Delete("r1") {
		t.Fatal("Delete should report an existing room")
	}
	if _, ok := s.Get("r1"); ok {
		t.Error("room should be gone after Delete")
	}
	if _, open := <-ch; open {
		t.Error("subscriber should be closed after Delete")
	}
	if s.Delete("r1") {
		t.Error("second Delete should report false")
	}
}

func TestRoomStore_RunLoop_StopsAndPublishes(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("r1", 1)
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.RunLoop("r1", func() int { return 1 }, func(int, time.Time) (time.Time, []string, bool) {
		return time.Time{}, []string{"done"}, true
	})

	select {
	case got := <-ch:
		if got != "done" {
			t.Errorf("got %q, want done", got)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not publish")
	}

	deadline := time.Now().Add(time.Second)
	for s.Looping("r1") {
		if time.Now().After(deadline) {
			t.Fatal("loop did not exit")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRoomStore_RunLoop_WakeAndDelete(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("r1", 1)
	ticks := make(chan struct{}, 10)
	s.RunLoop("r1", func() int { return 1 }, func(int, time.Time) (time.Time, []string, bool) {
		ticks <- struct{}{}
		return time.Now().Add(time.Hour), nil, false
	})
	// Second call is ignored while the first loop runs.
	s.RunLoop("r1", func() int { return 1 }, func(int, time.Time) (time.Time, []string, bool) {
		t.Error("second loop should not start")
		return time.Time{}, nil, true
	})

	<-ticks
	s.Wake("r1")
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("Wake did not trigger a tick")
	}

	s.Delete("r1")
	deadline := time.Now().Add(time.Second)
	for s.Looping("r1") {
		if time.Now().After(deadline) {
			t.Fatal("loop did not exit after Delete")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRoomStore_Wake_NoPanicWhenNoLoop(t *testing.T) {
	s := NewRoomStore[string]()
	s.Wake("nonexistent")
}
