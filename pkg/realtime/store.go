package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID       string
	State    T
	hub      *Broadcaster
	lastSeen time.Time
}

// RoomStore manages rooms, their broadcasters and their background loops.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	loops map[string]*loop[T]
	now   func() time.Time
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
		loops: make(map[string]*loop[T]),
		now:   time.Now,
	}
}

// Create adds a room with the given id and state, replacing any previous room.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rooms[id]; ok {
		old.hub.CloseAll()
	}
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster(), lastSeen: s.now()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists and marks it as recently used.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if ok {
		r.lastSeen = s.now()
	}
	return r, ok
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Delete removes a room, stops its loop and closes its subscribers.
func (s *RoomStore[T]) Delete(id string) {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	l := s.loops[id]
	s.mu.Unlock()
	if l != nil {
		l.cancel()
	}
	if ok {
		r.hub.CloseAll()
	}
}

// Sweep deletes rooms not used within idle and returns their ids.
func (s *RoomStore[T]) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)
	s.mu.RLock()
	var stale []string
	for id, r := range s.rooms {
		if r.lastSeen.Before(cutoff) && r.hub.Len() == 0 {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()
	for _, id := range stale {
		s.Delete(id)
	}
	return stale
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are ignored.
func (s *RoomStore[T]) Publish(id string, events ...Event) {
	hub, ok := s.Broadcaster(id)
	if !ok {
		return
	}
	hub.Publish(events...)
}

// Broadcaster returns the broadcaster for an existing room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return r.hub, true
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// stop true means exit the loop after publishing events.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []Event, stop bool)

type loop[T any] struct {
	cancel   context.CancelFunc
	wake     chan struct{}
	getState func() (T, bool)
	tick     TickFunc[T]
	rerun    bool
}

// RunLoop starts a timing loop for the room and reports whether a new loop was
// started. If a loop already runs for id, it adopts getState and tick, is woken
// immediately, and runs at least one more tick before it may stop.
func (s *RoomStore[T]) RunLoop(id string, getState func() (T, bool), tick TickFunc[T]) bool {
	s.mu.Lock()
	if l, ok := s.loops[id]; ok {
		l.getState = getState
		l.tick = tick
		l.rerun = true
		s.mu.Unlock()
		select {
		case l.wake <- struct{}{}:
		default:
		}
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop[T]{cancel: cancel, wake: make(chan struct{}, 1), getState: getState, tick: tick}
	s.loops[id] = l
	s.mu.Unlock()

	go func() {
		defer cancel()
		for {
			s.mu.Lock()
			getState, tick := l.getState, l.tick
			l.rerun = false
			s.mu.Unlock()

			var (
				next   time.Time
				events []Event
				stop   = true
			)
			if state, ok := getState(); ok {
				next, events, stop = tick(state, s.now())
			}
			s.Publish(id, events...)
			if stop {
				s.mu.Lock()
				if l.rerun && ctx.Err() == nil {
					s.mu.Unlock()
					continue
				}
				s.forget(id, l)
				s.mu.Unlock()
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.mu.Lock()
				s.forget(id, l)
				s.mu.Unlock()
				return
			case <-timer.C:
			case <-l.wake:
				timer.Stop()
			}
		}
	}()
	return true
}

// forget drops l from the loop table unless it has already been replaced.
// Callers hold s.mu.
func (s *RoomStore[T]) forget(id string, l *loop[T]) {
	if s.loops[id] == l {
		delete(s.loops, id)
	}
}

// Running reports whether a loop is active for id.
func (s *RoomStore[T]) Running(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loops[id]
	return ok
}

// Stop cancels the room's loop, if any.
func (s *RoomStore[T]) Stop(id string) {
	s.mu.RLock()
	l := s.loops[id]
	s.mu.RUnlock()
	if l != nil {
		l.cancel()
	}
}

// StopAll cancels every running loop.
func (s *RoomStore[T]) StopAll() {
	s.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(s.loops))
	for _, l := range s.loops {
		cancels = append(cancels, l.cancel)
	}
	s.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
}
