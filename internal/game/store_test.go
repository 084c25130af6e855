package game

import (
	"testing"
	"time"

	"giftwheel/internal/wheel"
)

func TestNewStore(t *testing.T) {
	s := NewStore(testSettings())
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
}

func TestStore_CreateGame_GetGame(t *testing.T) {
	s := NewStore(testSettings())
	g := s.CreateGame([]string{"Ann", "Bob"}, []string{"1"})
	if g == nil {
		t.Fatal("CreateGame returned nil")
	}
	if g.ID == "" {
		t.Error("game ID is empty")
	}

	got, ok := s.GetGame(g.ID)
	if !ok {
		t.Fatal("GetGame returned false for existing game")
	}
	if got != g {
		t.Error("GetGame returned different pointer")
	}

	_, ok = s.GetGame("nonexistent")
	if ok {
		t.Error("GetGame should return false for missing ID")
	}
}

func TestStore_Publish(t *testing.T) {
	s := NewStore(testSettings())
	g := s.CreateGame(nil, nil)
	hub := s.Broadcaster(g.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish(g.ID, EventTurn, EventBoard)
	for _, want := range []string{EventTurn, EventBoard} {
		if got := <-ch; got.Type != want {
			t.Errorf("got %q, want %q", got.Type, want)
		}
	}
}

func TestStore_SpinLoopLandsAndPublishes(t *testing.T) {
	settings := testSettings()
	settings.SpinDuration = 20 * time.Millisecond
	s := NewStore(settings, WithRandSource(func() wheel.RandFunc { return sequence(0) }))
	g := s.CreateGame([]string{"Ann", "Bob"}, []string{"1", "2"})
	hub := s.Broadcaster(g.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	if _, err := g.Spin(time.Now().UTC()); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	s.EnsureSpinLoop(g.ID)

	seen := map[string]bool{}
	deadline := time.After(2 * time.Second)
	for !seen[EventAudio] {
		select {
		case e := <-ch:
			seen[e.Type] = true
		case <-deadline:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
	for _, want := range []string{EventWheel, EventTurn, EventBoard} {
		if !seen[want] {
			t.Errorf("missing %q event", want)
		}
	}
	snap := g.Snapshot(time.Now().UTC())
	if snap.Players[0].Prize != "1" {
		t.Errorf("Ann's prize %q, want 1", snap.Players[0].Prize)
	}
}

func TestStore_WakeSpinLoop_NoPanicWhenNoLoop(t *testing.T) {
	s := NewStore(testSettings())
	s.WakeSpinLoop("nonexistent")
}
