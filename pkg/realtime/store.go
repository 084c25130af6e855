package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// RoomStore keeps rooms in a bounded LRU. Rooms idle for longer than the
// TTL, or pushed out by newer rooms, are evicted and their loops stopped.
type RoomStore[T any] struct {
	mu    sync.Mutex
	rooms *expirable.LRU[string, *Room[T]]

	loopMu sync.Mutex
	loops  map[string]context.CancelFunc
	wakes  map[string]chan struct{}
	rerun  map[string]bool
}

// NewRoomStore creates an empty store. size <= 0 means unbounded and
// ttl <= 0 means rooms never expire.
func NewRoomStore[T any](size int, ttl time.Duration) *RoomStore[T] {
	s := &RoomStore[T]{
		loops: make(map[string]context.CancelFunc),
		wakes: make(map[string]chan struct{}),
		rerun: make(map[string]bool),
	}
	s.rooms = expirable.NewLRU[string, *Room[T]](size, s.evicted, ttl)
	return s
}

// evicted runs under the LRU's lock; it must not call back into s.rooms.
func (s *RoomStore[T]) evicted(id string, r *Room[T]) {
	s.stopLoop(id)
	if r != nil && r.hub != nil {
		r.hub.Close()
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster()}
	s.rooms.Add(id, r)
	return r
}

// Get returns the room by ID and renews its expiry.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms.Get(id)
	if ok {
		s.rooms.Add(id, r)
	}
	return r, ok
}

// Delete removes a room, stopping its loop and disconnecting subscribers.
func (s *RoomStore[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms.Remove(id)
}

// Len returns the number of live rooms.
func (s *RoomStore[T]) Len() int {
	return s.rooms.Len()
}

// Publish sends a typed event to the room's subscribers.
func (s *RoomStore[T]) Publish(id string, eventType string) {
	s.Broadcaster(id).Publish(NewEvent(eventType, ""))
}

// Broadcaster returns the broadcaster for the room. Unknown rooms get a
// detached broadcaster that nobody else sees.
func (s *RoomStore[T]) Broadcaster(id string) *Broadcaster {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms.Peek(id)
	if !ok {
		return NewBroadcaster()
	}
	if r.hub == nil {
		r.hub = NewBroadcaster()
	}
	return r.hub
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// stop true means exit the loop once events are published.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []string, stop bool)

// RunLoop starts a timing loop for the room. If a loop already exists for id
// it is asked to run at least one more tick instead of starting a second one.
func (s *RoomStore[T]) RunLoop(id string, getState func() T, tick TickFunc[T]) {
	s.loopMu.Lock()
	if _, ok := s.loops[id]; ok {
		s.rerun[id] = true
		wake := s.wakes[id]
		s.loopMu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	s.loops[id] = cancel
	s.wakes[id] = wake
	s.loopMu.Unlock()

	go func() {
		for {
			state := getState()
			now := time.Now().UTC()
			next, events, stop := tick(state, now)
			// Publish before stopping so the final transition reaches clients.
			for _, e := range events {
				s.Publish(id, e)
			}
			if stop {
				if s.finishLoop(id, wake) {
					return
				}
				continue
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-wake:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
		}
	}()
}

// finishLoop unregisters the loop unless RunLoop was called for the room
// while it was running, in which case it reports false and the loop goes on.
func (s *RoomStore[T]) finishLoop(id string, wake chan struct{}) bool {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.rerun[id] {
		delete(s.rerun, id)
		return false
	}
	if s.wakes[id] == wake {
		s.loops[id]()
		delete(s.loops, id)
		delete(s.wakes, id)
	}
	return true
}

// Running reports whether a loop is active for the room.
func (s *RoomStore[T]) Running(id string) bool {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	_, ok := s.loops[id]
	return ok
}

// Wake unblocks the room's loop so it recomputes immediately.
func (s *RoomStore[T]) Wake(id string) {
	s.loopMu.Lock()
	wake, ok := s.wakes[id]
	s.loopMu.Unlock()
	if !ok {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

func (s *RoomStore[T]) stopLoop(id string) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if cancel, ok := s.loops[id]; ok {
		cancel()
		delete(s.loops, id)
		delete(s.wakes, id)
	}
	delete(s.rerun, id)
}
