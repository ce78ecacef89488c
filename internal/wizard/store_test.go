package wizard

import (
	"errors"
	"testing"
	"time"

	"posterplanner/pkg/placement"
)

func TestNewStore(t *testing.T) {
	s := NewStore(Options{})
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
	if s.Options().DragTimeout != DefaultDragTimeout {
		t.Errorf("DragTimeout %v, want default", s.Options().DragTimeout)
	}
}

func TestStore_CreateSession_GetSession(t *testing.T) {
	s := NewStore(Options{})
	sess := s.CreateSession()
	defer s.Delete(sess.ID)

	got, ok := s.GetSession(sess.ID)
	if !ok {
		t.Fatal("GetSession returned false for existing session")
	}
	if got != sess {
		t.Error("GetSession returned different pointer")
	}
	if _, ok := s.GetSession("nonexistent"); ok {
		t.Error("GetSession should return false for missing ID")
	}
	if _, err := s.Lookup("nonexistent"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Lookup err %v, want ErrSessionNotFound", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len %d, want 1", s.Len())
	}
}

func TestStore_Publish(t *testing.T) {
	s := NewStore(Options{})
	sess := s.CreateSession()
	defer s.Delete(sess.ID)
	hub, ok := s.Broadcaster(sess.ID)
	if !ok {
		t.Fatal("Broadcaster missing for existing session")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish(sess.ID, EventBoard)
	if got := <-ch; got != EventBoard {
		t.Errorf("got event %q, want %q", got, EventBoard)
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore(Options{})
	sess := s.CreateSession()
	if !s.Delete(sess.ID) {
		t.Fatal("Delete should report existing session")
	}
	if _, ok := s.GetSession(sess.ID); ok {
		t.Error("session should be gone")
	}
}

func TestStore_WatchdogReleasesStaleDrag(t *testing.T) {
	s := NewStore(Options{DragTimeout: 20 * time.Millisecond, SessionTTL: time.Hour})
	sess := s.CreateSession()
	defer s.Delete(sess.ID)
	sess.InitializeLayout(Config{WallType: "flat", Count: 1, Size: "20x30"})

	hub, _ := s.Broadcaster(sess.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	sess.PointerDown("poster-0", time.Now().UTC())
	sess.PointerMove(placement.Move{X: 50, Y: 50}, time.Now().UTC())
	s.Wake(sess.ID)

	select {
	case got := <-ch:
		if got != EventBoard {
			t.Errorf("got event %q, want %q", got, EventBoard)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not release the drag")
	}
	if sess.Snapshot().Dragging != "" {
		t.Error("drag should be released")
	}
}

func TestStore_WatchdogExpiresSession(t *testing.T) {
	s := NewStore(Options{SessionTTL: 20 * time.Millisecond})
	sess := s.CreateSession()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := s.GetSession(sess.ID); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("idle session was not discarded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStore_Wake_NoPanicWhenNoLoop(t *testing.T) {
	s := NewStore(Options{})
	s.Wake("nonexistent")
}
