package game

import (
	"errors"
	"testing"
	"time"

	"giftwheel/internal/wheel"
)

func sequence(values ...int) wheel.RandFunc {
	i := 0
	return func(n int) int {
		if i >= len(values) {
			return 0
		}
		v := values[i] % n
		i++
		return v
	}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Specials = nil
	s.SpinDuration = 100 * time.Millisecond
	s.StepDelay = 10 * time.Millisecond
	s.ConfirmDelay = 50 * time.Millisecond
	return s
}

// settle runs the spin animation to completion and returns the time after it.
func settle(t *testing.T, g *Game, now time.Time) time.Time {
	t.Helper()
	for i := 0; i < 100; i++ {
		next, ok := g.NextTimer(now)
		if !ok {
			return now
		}
		now = next
		g.AdvanceIfNeeded(now)
	}
	t.Fatal("spin did not settle")
	return now
}

func TestNewGame(t *testing.T) {
	g := NewGame(testSettings(), nil, nil, nil)
	if g == nil {
		t.Fatal("NewGame returned nil")
	}
	if g.ID == "" {
		t.Error("ID is empty")
	}
	if g.HostToken == "" || !g.IsHost(g.HostToken) {
		t.Error("host token should be set and recognised")
	}
	if g.IsHost("") {
		t.Error("empty token must not be host")
	}
	snap := g.Snapshot(time.Now().UTC())
	if snap.Status != StatusPlaying {
		t.Errorf("Status %q, want %q", snap.Status, StatusPlaying)
	}
	if snap.Action != ActionSpin {
		t.Errorf("Action %q, want %q", snap.Action, ActionSpin)
	}
	if len(snap.Players) != 10 {
		t.Errorf("len(Players) %d, want 10", len(snap.Players))
	}
	if snap.Remaining != 10 || snap.TotalPrizes != 10 {
		t.Errorf("Remaining %d of %d, want 10 of 10", snap.Remaining, snap.TotalPrizes)
	}
	if snap.Cue != CueMusic {
		t.Errorf("Cue %q, want %q", snap.Cue, CueMusic)
	}
	if snap.ActiveIndex != -1 {
		t.Errorf("ActiveIndex %d, want -1", snap.ActiveIndex)
	}
}

func TestGame_SpinAnimatesThenLands(t *testing.T) {
	now := time.Now().UTC()
	g := NewGame(testSettings(), []string{"Ann", "Bob"}, []string{"1", "2", "3"}, sequence(0, 0))

	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	now = settle(t, g, now)

	plan, err := g.Spin(now)
	if err != nil {
		t.Fatalf("second Spin: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("len(Steps) %d, want 2", len(plan.Steps))
	}

	snap := g.Snapshot(now)
	if snap.Status != StatusSpinning {
		t.Errorf("Status %q, want %q", snap.Status, StatusSpinning)
	}
	if snap.ActiveIndex != 0 {
		t.Errorf("ActiveIndex %d, want 0 during first step", snap.ActiveIndex)
	}
	if snap.Rotation != plan.Steps[0].Angle {
		t.Errorf("Rotation %v, want first step angle %v", snap.Rotation, plan.Steps[0].Angle)
	}
	if snap.Transition != 100*time.Millisecond {
		t.Errorf("Transition %v, want 100ms", snap.Transition)
	}
	if snap.Cue != CueSpin {
		t.Errorf("Cue %q, want %q", snap.Cue, CueSpin)
	}
	if err := g.Pass(); !errors.Is(err, wheel.ErrSpinInProgress) {
		t.Errorf("Pass during spin: %v, want ErrSpinInProgress", err)
	}

	advanced, landed := g.AdvanceIfNeeded(now.Add(100 * time.Millisecond))
	if !advanced || landed {
		t.Errorf("advanced=%v landed=%v, want true false", advanced, landed)
	}
	if snap := g.Snapshot(now); snap.ActiveIndex != 1 {
		t.Errorf("ActiveIndex %d, want 1 on the skip step", snap.ActiveIndex)
	}

	advanced, landed = g.AdvanceIfNeeded(now.Add(200 * time.Millisecond))
	if !advanced || !landed {
		t.Errorf("advanced=%v landed=%v, want true true", advanced, landed)
	}
	snap = g.Snapshot(now)
	if snap.Players[1].Prize != "2" {
		t.Errorf("Bob's prize %q, want 2", snap.Players[1].Prize)
	}
	if snap.Cue != CuePrize {
		t.Errorf("Cue %q, want %q", snap.Cue, CuePrize)
	}
	if snap.Notice != "Bob wins prize 2!" {
		t.Errorf("Notice %q", snap.Notice)
	}
	if snap.ActiveIndex != 1 {
		t.Errorf("ActiveIndex %d, want landing index 1", snap.ActiveIndex)
	}
	if _, ok := g.NextTimer(now); ok {
		t.Error("timer should be idle after landing")
	}
}

func TestGame_ConfirmWaitsForDisplayDelay(t *testing.T) {
	settings := testSettings()
	settings.Specials = []wheel.SpecialSlot{{Code: wheel.CodeForcedWorstOfTwo, Label: "Worst of 2", Kind: wheel.KindMalus}}
	settings.Layout = wheel.LayoutAppended
	now := time.Now().UTC()
	g := NewGame(settings, []string{"Ann", "Bob"}, []string{"1", "2"}, sequence(2, 0, 0))

	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	now = settle(t, g, now)
	snap := g.Snapshot(now)
	if snap.Status != StatusPending || snap.Pending == nil {
		t.Fatalf("Status %q pending=%v, want pending effect", snap.Status, snap.Pending)
	}
	if snap.Cue != CueMalus {
		t.Errorf("Cue %q, want %q", snap.Cue, CueMalus)
	}
	if !snap.ConfirmAt.Equal(now.Add(50 * time.Millisecond)) {
		t.Errorf("ConfirmAt %v, want %v", snap.ConfirmAt, now.Add(50*time.Millisecond))
	}

	if err := g.Accept(now); !errors.Is(err, ErrConfirmNotReady) {
		t.Fatalf("early Accept: %v, want ErrConfirmNotReady", err)
	}
	if err := g.Accept(now.Add(50 * time.Millisecond)); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	snap = g.Snapshot(now)
	if snap.Players[0].Prize != "2" {
		t.Errorf("Ann's prize %q, want 2", snap.Players[0].Prize)
	}
	if snap.Cue != CueResolve {
		t.Errorf("Cue %q, want %q", snap.Cue, CueResolve)
	}
	if snap.CurrentPlayer != "Bob" {
		t.Errorf("CurrentPlayer %q, want Bob", snap.CurrentPlayer)
	}
}

func TestGame_SwapNoticeNamesRobbedPlayer(t *testing.T) {
	settings := testSettings()
	settings.Specials = []wheel.SpecialSlot{{Code: wheel.CodeSwapWithAssigned, Label: "Steal a prize", Kind: wheel.KindBonus}}
	settings.Layout = wheel.LayoutAppended
	now := time.Now().UTC()
	g := NewGame(settings, []string{"Ann", "Bob", "Cid"}, []string{"1", "2", "3"}, sequence(0, 3))

	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	now = settle(t, g, now)
	if _, err := g.Spin(now); err != nil {
		t.Fatalf("second Spin: %v", err)
	}
	now = settle(t, g, now)
	if snap := g.Snapshot(now); snap.Pending == nil || snap.Pending.Kind != wheel.PendingSwap {
		t.Fatalf("Pending %+v, want swap", snap.Pending)
	}

	if err := g.Swap("Ann", now.Add(50*time.Millisecond)); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	snap := g.Snapshot(now)
	want := "Bob took prize 1 from Ann. Ann has no prize now and spins again on their turn."
	if snap.Notice != want {
		t.Errorf("Notice %q, want %q", snap.Notice, want)
	}
	if snap.Players[0].Prize != "" || snap.Players[1].Prize != "1" {
		t.Errorf("prizes Ann=%q Bob=%q, want none and 1", snap.Players[0].Prize, snap.Players[1].Prize)
	}
	if snap.CurrentPlayer != "Cid" {
		t.Errorf("CurrentPlayer %q, want Cid", snap.CurrentPlayer)
	}
}

func TestGame_SkipAndPassActions(t *testing.T) {
	settings := testSettings()
	settings.Specials = []wheel.SpecialSlot{{Code: wheel.CodeSkipNextTurn, Label: "Skip", Kind: wheel.KindMalus}}
	settings.Layout = wheel.LayoutAppended
	settings.ConfirmDelay = 0
	now := time.Now().UTC()
	g := NewGame(settings, []string{"Ann", "Bob"}, []string{"1", "2"}, sequence(2, 0))

	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	now = settle(t, g, now)
	if err := g.Continue(now); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Bob Spin: %v", err)
	}
	now = settle(t, g, now)

	if snap := g.Snapshot(now); snap.Action != ActionSkip {
		t.Fatalf("Action %q, want %q", snap.Action, ActionSkip)
	}
	if err := g.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	snap := g.Snapshot(now)
	if snap.Action != ActionPass {
		t.Errorf("Action %q, want %q", snap.Action, ActionPass)
	}
	if snap.Notice != "Ann sits this turn out." {
		t.Errorf("Notice %q", snap.Notice)
	}
	if err := g.Pass(); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if snap := g.Snapshot(now); snap.CurrentPlayer != "Ann" || snap.Action != ActionSpin {
		t.Errorf("CurrentPlayer %q Action %q, want Ann spin", snap.CurrentPlayer, snap.Action)
	}
}

func TestGame_ResetAbandonsSpin(t *testing.T) {
	now := time.Now().UTC()
	g := NewGame(testSettings(), nil, nil, sequence(0))
	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	g.Reset([]string{"X", "Y"}, []string{"a"})

	snap := g.Snapshot(now)
	if snap.Status != StatusPlaying {
		t.Errorf("Status %q, want %q", snap.Status, StatusPlaying)
	}
	if snap.Rotation != 0 {
		t.Errorf("Rotation %v, want 0", snap.Rotation)
	}
	if len(snap.Players) != 2 || snap.Remaining != 1 {
		t.Errorf("players %d remaining %d, want 2 and 1", len(snap.Players), snap.Remaining)
	}
	if _, ok := g.NextTimer(now); ok {
		t.Error("timer should be idle after reset")
	}
}

func TestGame_FinishedRejectsSpin(t *testing.T) {
	now := time.Now().UTC()
	g := NewGame(testSettings(), []string{"Ann"}, []string{"1"}, sequence(0))
	if _, err := g.Spin(now); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	now = settle(t, g, now)
	snap := g.Snapshot(now)
	if snap.Status != StatusFinished {
		t.Errorf("Status %q, want %q", snap.Status, StatusFinished)
	}
	if _, err := g.Spin(now); !errors.Is(err, wheel.ErrGameFinished) {
		t.Errorf("Spin: %v, want ErrGameFinished", err)
	}
	if len(snap.BurnedPrizes) != 1 || snap.BurnedPrizes[0] != "1" {
		t.Errorf("BurnedPrizes %v, want [1]", snap.BurnedPrizes)
	}
}
