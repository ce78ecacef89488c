package wizard

import (
	"errors"
	"time"

	"posterplanner/pkg/realtime"
)

// Events published to session subscribers.
const (
	EventBoard  = "board"
	EventConfig = "config"
	EventClosed = "closed"
)

var ErrSessionNotFound = errors.New("session not found")

// Store holds sessions and delegates to realtime.RoomStore for fan-out and timing.
type Store struct {
	r    *realtime.RoomStore[*Session]
	opts Options
}

// NewStore creates an in-memory session store. Every session it creates
// gets opts.
func NewStore(opts Options) *Store {
	return &Store{r: realtime.NewRoomStore[*Session](), opts: opts.withDefaults()}
}

// Options returns the session options of the store.
func (s *Store) Options() Options {
	return s.opts
}

// CreateSession starts a wizard run and its expiry loop.
func (s *Store) CreateSession() *Session {
	sess := NewSession(s.opts)
	s.r.Create(sess.ID, sess)
	s.EnsureWatchdog(sess.ID)
	wizardLog().Info().Str("session", sess.ID).Msg("session created")
	return sess
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Lookup is GetSession with an error for callers that propagate one.
func (s *Store) Lookup(id string) (*Session, error) {
	sess, ok := s.GetSession(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Broadcaster returns the SSE broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session update with a typed event.
func (s *Store) Publish(id string, event string) {
	s.r.Publish(id, event)
}

// Delete discards a session and its layout.
func (s *Store) Delete(id string) bool {
	return s.r.Delete(id)
}

// EnsureWatchdog starts the timing loop that releases stale drags and
// discards idle sessions, if it is not already running.
func (s *Store) EnsureWatchdog(id string) {
	getState := func() *Session {
		room, ok := s.r.Get(id)
		if !ok {
			return nil
		}
		return room.State
	}
	tick := func(state *Session, now time.Time) (time.Time, []string, bool) {
		if state == nil {
			return time.Time{}, nil, true
		}
		released, expired := state.Tick(now)
		if expired {
			wizardLog().Info().Str("session", id).Msg("session expired")
			s.r.Publish(id, EventClosed)
			s.r.Delete(id)
			return time.Time{}, nil, true
		}
		var events []string
		if released {
			wizardLog().Debug().Str("session", id).Msg("stale drag released")
			events = append(events, EventBoard)
		}
		next, ok := state.NextTimer(now)
		if !ok {
			return time.Time{}, events, true
		}
		return next, events, false
	}
	s.r.RunLoop(id, getState, tick)
}

// Wake makes the watchdog recompute its deadline, e.g. after a new drag.
func (s *Store) Wake(id string) {
	s.r.Wake(id)
}
