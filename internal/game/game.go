package game

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"giftwheel/internal/metrics"
	"giftwheel/internal/wheel"
	"giftwheel/pkg/realtime"
)

const (
	StatusPlaying  = "playing"
	StatusSpinning = "spinning"
	StatusPending  = "pending"
	StatusFinished = "finished"
)

// Turn actions offered to the host.
const (
	ActionSpin    = "spin"
	ActionSkip    = "skip"
	ActionPass    = "pass"
	ActionResolve = "resolve"
	ActionWait    = "wait"
	ActionNone    = "none"
)

// Event types published to a game's subscribers.
const (
	EventWheel = "wheel"
	EventTurn  = "turn"
	EventBoard = "board"
	EventAudio = "audio"
)

// Audio cues played by the page.
const (
	CueMusic   = "bgm"
	CueSpin    = "spin"
	CuePrize   = "prize"
	CueBonus   = "bonus"
	CueMalus   = "malus"
	CueResolve = "resolve"
)

var (
	ErrConfirmNotReady = errors.New("effect is still being shown")
	ErrGameNotFound    = errors.New("game not found")
)

// Settings are the per-server defaults every new game starts from.
type Settings struct {
	Specials     []wheel.SpecialSlot
	Layout       wheel.Layout
	ExtraSpins   int
	SpinDuration time.Duration
	StepDelay    time.Duration
	ConfirmDelay time.Duration
	MaxGames     int
	GameTTL      time.Duration
}

// DefaultSettings returns the stock wheel and pacing.
func DefaultSettings() Settings {
	return Settings{
		Specials:     wheel.DefaultSpecials(),
		Layout:       wheel.LayoutInterleaved,
		ExtraSpins:   wheel.DefaultExtraSpins,
		SpinDuration: 4 * time.Second,
		StepDelay:    550 * time.Millisecond,
		ConfirmDelay: 1200 * time.Millisecond,
		MaxGames:     500,
		GameTTL:      12 * time.Hour,
	}
}

// Game wraps one wheel engine with the pacing and presentation state of a
// hosted session.
type Game struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	HostToken string

	settings     Settings
	engine       *wheel.State
	timeline     realtime.Timeline
	plan         *wheel.SpinPlan
	lastIndex    int
	pendingSince time.Time
	notice       string
	cue          string
	cueSeq       int
	version      int
}

// NewGame creates a game. A nil rng uses the default source.
func NewGame(settings Settings, players, prizes []string, rng wheel.RandFunc) *Game {
	g := &Game{
		ID:        newID(),
		CreatedAt: time.Now().UTC(),
		HostToken: uuid.NewString(),
		settings:  settings,
		lastIndex: -1,
	}
	opts := []wheel.Option{wheel.WithListener(g.onEvent)}
	if rng != nil {
		opts = append(opts, wheel.WithRand(rng))
	}
	g.engine = wheel.New(wheel.Config{
		Players:    players,
		Prizes:     prizes,
		Specials:   settings.Specials,
		Layout:     settings.Layout,
		ExtraSpins: settings.ExtraSpins,
	}, opts...)
	return g
}

// IsHost reports whether token belongs to the game's host.
func (g *Game) IsHost(token string) bool {
	return token != "" && token == g.HostToken
}

// onEvent runs with g.mu held, inside engine calls.
func (g *Game) onEvent(e wheel.Event) {
	switch e.Kind {
	case wheel.EventReset:
		g.notice = ""
		g.setCue(CueMusic)
	case wheel.EventSpinStarted:
		metrics.Spins.Inc()
		g.notice = e.Player + " is spinning..."
		g.setCue(CueSpin)
	case wheel.EventLanded:
		metrics.Landings.WithLabelValues(string(e.Segment.Kind)).Inc()
		switch e.Segment.Kind {
		case wheel.KindBonus:
			g.setCue(CueBonus)
		case wheel.KindMalus:
			g.setCue(CueMalus)
		default:
			g.setCue(CuePrize)
		}
		if e.Prize != "" {
			g.notice = fmt.Sprintf("%s wins prize %s!", e.Player, e.Prize)
		} else if e.Effect != nil {
			g.notice = fmt.Sprintf("%s landed on %s.", e.Player, e.Segment.Label)
		}
		slog.Info("wheel landed", "game", g.ID, "player", e.Player, "segment", e.Segment.ID)
	case wheel.EventPendingResolved:
		metrics.EffectsResolved.WithLabelValues(string(e.Effect.Code)).Inc()
		switch {
		case e.From != "":
			g.notice = fmt.Sprintf("%s took prize %s from %s. %s has no prize now and spins again on their turn.",
				e.Player, e.Prize, e.From, e.From)
		case e.Prize != "":
			g.notice = fmt.Sprintf("%s takes prize %s.", e.Player, e.Prize)
		default:
			g.notice = e.Effect.Message
		}
		g.setCue(CueResolve)
		slog.Info("effect resolved", "game", g.ID, "player", e.Player, "code", e.Effect.Code, "prize", e.Prize)
	}
}

func (g *Game) setCue(cue string) {
	g.cue = cue
	g.cueSeq++
}

// Spin resolves a spin for the current player and starts its animation.
// The landing is applied by AdvanceIfNeeded once the animation has run.
func (g *Game) Spin(now time.Time) (wheel.SpinPlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	plan, err := g.engine.PlanSpin()
	if err != nil {
		if errors.Is(err, wheel.ErrAllSegmentsBurned) {
			g.notice = "Every segment is burned."
		}
		return plan, err
	}
	metrics.SegmentsSkipped.Add(float64(len(plan.Result.Skipped)))
	delays := make([]time.Duration, len(plan.Steps))
	for i := range delays {
		delays[i] = g.settings.StepDelay
	}
	delays[0] = g.settings.SpinDuration
	g.plan = &plan
	g.timeline.Start(now, delays)
	g.version++
	return plan, nil
}

// AdvanceIfNeeded steps the spin animation. landed is true when the final
// step finished and the outcome was applied.
func (g *Game) AdvanceIfNeeded(now time.Time) (advanced bool, landed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.timeline.Active() {
		return false, false
	}
	advanced, finished := g.timeline.Advance(now)
	if advanced {
		g.version++
	}
	if !finished {
		return advanced, false
	}
	g.landLocked(now)
	return true, true
}

func (g *Game) landLocked(now time.Time) {
	if g.plan != nil {
		g.lastIndex = g.plan.Result.Final
	}
	g.plan = nil
	landing, err := g.engine.Land()
	if err != nil {
		slog.Error("landing failed", "game", g.ID, "error", err)
		return
	}
	if landing.Pending != nil {
		g.pendingSince = now
	}
}

// NextTimer returns when the spin animation next needs attention.
func (g *Game) NextTimer(now time.Time) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeline.NextWake(now)
}

// Choose resolves a pick effect with the given prize label.
func (g *Game) Choose(label string, now time.Time) error {
	return g.confirm(now, func() error { return g.engine.ChoosePrize(label) })
}

// Accept acknowledges a forced prize.
func (g *Game) Accept(now time.Time) error {
	return g.confirm(now, g.engine.AcceptForced)
}

// Swap takes the prize held by target.
func (g *Game) Swap(target string, now time.Time) error {
	return g.confirm(now, func() error { return g.engine.SwapWith(target) })
}

// Continue dismisses an informational effect.
func (g *Game) Continue(now time.Time) error {
	return g.confirm(now, g.engine.Continue)
}

func (g *Game) confirm(now time.Time, resolve func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.engine.PendingEffect(); ok && !g.engine.Spinning() {
		if now.Before(g.pendingSince.Add(g.settings.ConfirmDelay)) {
			return ErrConfirmNotReady
		}
	}
	if err := resolve(); err != nil {
		return err
	}
	g.version++
	return nil
}

// Skip serves the current player's skip flag.
func (g *Game) Skip() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.engine.CurrentPlayer()
	if err := g.engine.SkipTurn(); err != nil {
		return err
	}
	g.notice = player + " sits this turn out."
	g.version++
	return nil
}

// Pass moves past a player who already has a prize.
func (g *Game) Pass() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.engine.CurrentPlayer()
	if err := g.engine.PassTurn(); err != nil {
		return err
	}
	g.notice = player + " already has a prize. Next!"
	g.version++
	return nil
}

// Reset restarts the game with new players and prizes, abandoning any spin.
func (g *Game) Reset(players, prizes []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeline.Stop()
	g.plan = nil
	g.lastIndex = -1
	g.pendingSince = time.Time{}
	g.engine.Reset(players, prizes)
	g.version++
}

// Snapshot captures the state needed for rendering UI fragments.
type Snapshot struct {
	ID             string
	Status         string
	Version        int
	Segments       []wheel.SegmentState
	ActiveIndex    int
	Rotation       float64
	Transition     time.Duration
	CurrentPlayer  string
	Action         string
	Players        []wheel.PlayerState
	Remaining      int
	TotalPrizes    int
	Prizes         []string
	Pending        *wheel.PendingEffect
	ConfirmAt      time.Time
	BurnedPrizes   []string
	BurnedSpecials []wheel.SpecialSlot
	Notice         string
	Cue            string
	CueSeq         int
}

// Snapshot returns a consistent view of the current game state.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	segments := g.engine.Segments()
	snap := Snapshot{
		ID:             g.ID,
		Version:        g.version,
		Segments:       segments,
		ActiveIndex:    g.lastIndex,
		Rotation:       g.engine.Rotation(),
		CurrentPlayer:  g.engine.CurrentPlayer(),
		Players:        g.engine.Players(),
		Remaining:      g.engine.RemainingPrizeCount(),
		Prizes:         g.engine.Prizes(),
		BurnedPrizes:   g.engine.BurnedPrizes(),
		BurnedSpecials: g.engine.BurnedSpecials(),
		Notice:         g.notice,
		Cue:            g.cue,
		CueSeq:         g.cueSeq,
	}
	for _, seg := range segments {
		if seg.Kind == wheel.KindPrize {
			snap.TotalPrizes++
		}
	}
	if g.plan != nil && g.timeline.Active() {
		step := g.plan.Steps[g.timeline.Current]
		snap.ActiveIndex = step.Index
		snap.Rotation = step.Angle
		snap.Transition = g.timeline.Delays[g.timeline.Current]
	}
	if p, ok := g.engine.PendingEffect(); ok {
		snap.Pending = &p
		snap.ConfirmAt = g.pendingSince.Add(g.settings.ConfirmDelay)
	}
	snap.Status, snap.Action = g.statusLocked()
	return snap
}

func (g *Game) statusLocked() (string, string) {
	switch err := g.engine.CanSpin(); {
	case errors.Is(err, wheel.ErrSpinInProgress):
		return StatusSpinning, ActionWait
	case errors.Is(err, wheel.ErrPendingEffect):
		return StatusPending, ActionResolve
	case errors.Is(err, wheel.ErrGameFinished):
		return StatusFinished, ActionNone
	case errors.Is(err, wheel.ErrMustSkip):
		return StatusPlaying, ActionSkip
	case errors.Is(err, wheel.ErrAlreadyAssigned):
		return StatusPlaying, ActionPass
	default:
		return StatusPlaying, ActionSpin
	}
}

// View runs fn against the engine while the game is locked. fn must not
// keep the pointer.
func (g *Game) View(fn func(s *wheel.State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.engine)
}

func newID() string {
	// 10 bytes -> 16 chars of base32, short and url-safe.
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(encoder.EncodeToString(buf))
}
