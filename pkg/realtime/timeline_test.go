package realtime

import (
	"testing"
	"time"
)

func TestTimeline_NextWake_NotStarted(t *testing.T) {
	var tl Timeline
	next, ok := tl.NextWake(time.Now().UTC())
	if ok {
		t.Error("NextWake should return false when not started")
	}
	if !next.IsZero() {
		t.Error("next should be zero")
	}
}

func TestTimeline_StartEmptyStaysIdle(t *testing.T) {
	var tl Timeline
	tl.Start(time.Now().UTC(), nil)
	if tl.Active() {
		t.Error("empty timeline should not be active")
	}
}

func TestTimeline_NextWake_ActiveStep(t *testing.T) {
	now := time.Now().UTC()
	var tl Timeline
	tl.Start(now, []time.Duration{100 * time.Millisecond, 50 * time.Millisecond})
	next, ok := tl.NextWake(now)
	if !ok {
		t.Fatal("NextWake should return true when active")
	}
	if want := now.Add(100 * time.Millisecond); !next.Equal(want) {
		t.Errorf("next %v, want %v", next, want)
	}
	late := now.Add(time.Second)
	if next, _ := tl.NextWake(late); !next.Equal(late) {
		t.Errorf("overdue wake %v, want now %v", next, late)
	}
}

func TestTimeline_AdvanceThroughSteps(t *testing.T) {
	now := time.Now().UTC()
	var tl Timeline
	tl.Start(now, []time.Duration{100 * time.Millisecond, 50 * time.Millisecond})

	advanced, finished := tl.Advance(now.Add(10 * time.Millisecond))
	if advanced || finished {
		t.Error("should not advance before the step delay")
	}

	t1 := now.Add(100 * time.Millisecond)
	advanced, finished = tl.Advance(t1)
	if !advanced || finished {
		t.Errorf("advanced=%v finished=%v, want true false", advanced, finished)
	}
	if tl.Current != 1 {
		t.Errorf("Current %d, want 1", tl.Current)
	}

	advanced, finished = tl.Advance(t1.Add(50 * time.Millisecond))
	if !advanced || !finished {
		t.Errorf("advanced=%v finished=%v, want true true", advanced, finished)
	}
	if tl.Active() {
		t.Error("timeline should be idle after finishing")
	}
}

func TestTimeline_Stop(t *testing.T) {
	var tl Timeline
	tl.Start(time.Now().UTC(), []time.Duration{time.Second})
	tl.Stop()
	if tl.Active() {
		t.Error("Stop should leave the timeline idle")
	}
	if advanced, _ := tl.Advance(time.Now().Add(time.Hour)); advanced {
		t.Error("stopped timeline should not advance")
	}
}
