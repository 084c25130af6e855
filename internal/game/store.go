package game

import (
	"log/slog"
	"time"

	"giftwheel/internal/metrics"
	"giftwheel/internal/wheel"
	"giftwheel/pkg/realtime"
)

// Store holds games and delegates to realtime.RoomStore for eviction and broadcast.
type Store struct {
	r        *realtime.RoomStore[*Game]
	settings Settings
	newRand  func() wheel.RandFunc
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithRandSource sets how each new game gets its random source.
func WithRandSource(fn func() wheel.RandFunc) StoreOption {
	return func(s *Store) {
		s.newRand = fn
	}
}

// NewStore creates an in-memory game store with SSE broadcasters.
func NewStore(settings Settings, opts ...StoreOption) *Store {
	s := &Store{
		r:        realtime.NewRoomStore[*Game](settings.MaxGames, settings.GameTTL),
		settings: settings,
		newRand:  wheel.DefaultRand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the defaults new games start from.
func (s *Store) Settings() Settings {
	return s.settings
}

// CreateGame initializes a game and registers its broadcaster.
func (s *Store) CreateGame(players, prizes []string) *Game {
	g := NewGame(s.settings, players, prizes, s.newRand())
	s.r.Create(g.ID, g)
	metrics.GamesCreated.Inc()
	metrics.GamesActive.Set(float64(s.r.Len()))
	slog.Info("game created", "game", g.ID, "players", len(players), "prizes", len(prizes))
	return g
}

// GetGame returns a game by ID if it exists.
func (s *Store) GetGame(id string) (*Game, bool) {
	room, ok := s.r.Get(id)
	if !ok || room.State == nil {
		return nil, false
	}
	return room.State, true
}

// Broadcaster returns the SSE broadcaster for a game.
func (s *Store) Broadcaster(id string) *realtime.Broadcaster {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a game update with typed events.
func (s *Store) Publish(id string, events ...string) {
	for _, e := range events {
		s.r.Publish(id, e)
	}
}

// EnsureSpinLoop starts the animation loop for a game if not already running.
func (s *Store) EnsureSpinLoop(id string) {
	getState := func() *Game {
		g, ok := s.GetGame(id)
		if !ok {
			return nil
		}
		return g
	}
	tick := func(state *Game, now time.Time) (time.Time, []string, bool) {
		if state == nil {
			return time.Time{}, nil, true
		}
		advanced, landed := state.AdvanceIfNeeded(now)
		var events []string
		switch {
		case landed:
			events = []string{EventWheel, EventTurn, EventBoard, EventAudio}
		case advanced:
			events = []string{EventWheel}
		}
		next, ok := state.NextTimer(now)
		if !ok {
			return time.Time{}, events, true
		}
		return next, events, false
	}
	s.r.RunLoop(id, getState, tick)
}

// WakeSpinLoop unblocks the animation loop so it recomputes.
func (s *Store) WakeSpinLoop(id string) {
	s.r.Wake(id)
}
