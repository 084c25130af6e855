package realtime

import "time"

// Timeline paces a fixed run of steps. Step i stays on screen for Delays[i];
// the timeline finishes once the last step's delay has passed. It holds no
// game state; the owner reacts to Advance.
type Timeline struct {
	Delays    []time.Duration
	Current   int
	StepStart time.Time
}

// Start shows the first step at now.
func (t *Timeline) Start(now time.Time, delays []time.Duration) {
	t.Delays = append([]time.Duration(nil), delays...)
	t.Current = 0
	t.StepStart = now
	if len(t.Delays) == 0 {
		t.StepStart = time.Time{}
	}
}

// Active reports whether a run is in progress.
func (t *Timeline) Active() bool {
	return !t.StepStart.IsZero()
}

// NextWake returns when the current step ends, or (zero, false) when idle.
func (t *Timeline) NextWake(now time.Time) (time.Time, bool) {
	if !t.Active() {
		return time.Time{}, false
	}
	next := t.StepStart.Add(t.Delays[t.Current])
	if now.After(next) {
		return now, true
	}
	return next, true
}

// Advance moves to the next step once the current one has run its delay.
// finished is true when the last step ended; the timeline is then idle.
func (t *Timeline) Advance(now time.Time) (advanced bool, finished bool) {
	if !t.Active() {
		return false, false
	}
	end := t.StepStart.Add(t.Delays[t.Current])
	if now.Before(end) {
		return false, false
	}
	if t.Current >= len(t.Delays)-1 {
		t.Stop()
		return true, true
	}
	t.Current++
	t.StepStart = now
	return true, false
}

// Stop abandons the run.
func (t *Timeline) Stop() {
	t.Delays = nil
	t.Current = 0
	t.StepStart = time.Time{}
}
