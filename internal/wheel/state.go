package wheel

import (
	"fmt"
	"strconv"
	"strings"
)

// Config seeds a new game.
type Config struct {
	Players    []string
	Prizes     []string
	Specials   []SpecialSlot
	Layout     Layout
	ExtraSpins int
}

// DefaultPlayers returns "Player 1" through "Player 10".
func DefaultPlayers() []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = "Player " + strconv.Itoa(i+1)
	}
	return out
}

// DefaultPrizes returns "1" through "10".
func DefaultPrizes() []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// EventKind names a notification emitted by the engine.
type EventKind string

const (
	EventSpinStarted     EventKind = "spin_started"
	EventLanded          EventKind = "landed"
	EventPendingResolved EventKind = "pending_resolved"
	EventReset           EventKind = "reset"
)

// Event is passed to the listener after the state has changed.
type Event struct {
	Kind    EventKind
	Player  string
	Segment *Segment
	Effect  *PendingEffect
	// Prize is the label the player ended up with, if any.
	Prize string
	// From is the player a prize was taken from by a swap.
	From string
}

// Option customises a State.
type Option func(*State)

// WithRand injects the random source used for spins and draws.
func WithRand(rng RandFunc) Option {
	return func(s *State) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithListener registers a callback for engine events. It runs synchronously
// inside the mutating call.
func WithListener(fn func(Event)) Option {
	return func(s *State) {
		s.listener = fn
	}
}

// SpinStep is one visual stop of the spin animation.
type SpinStep struct {
	Index int     `json:"index"`
	Angle float64 `json:"angle"`
}

// SpinPlan is a resolved spin that has not landed yet.
type SpinPlan struct {
	Player  string     `json:"player"`
	Result  SpinResult `json:"result"`
	Steps   []SpinStep `json:"steps"`
	Segment Segment    `json:"segment"`
}

// Landing reports what a landed spin did.
type Landing struct {
	Player   string         `json:"player"`
	Segment  Segment        `json:"segment"`
	Assigned string         `json:"assigned,omitempty"`
	Pending  *PendingEffect `json:"pending,omitempty"`
}

// PlayerStatus describes a player's standing in the turn order.
type PlayerStatus string

const (
	StatusWaiting  PlayerStatus = "waiting"
	StatusActive   PlayerStatus = "active"
	StatusAssigned PlayerStatus = "assigned"
	StatusMustSkip PlayerStatus = "must_skip"
)

// PlayerState is a read-only view of one player.
type PlayerState struct {
	Name    string       `json:"name"`
	Status  PlayerStatus `json:"status"`
	Prize   string       `json:"prize,omitempty"`
	Current bool         `json:"current"`
}

// SegmentState is a segment plus its burn flag.
type SegmentState struct {
	Segment
	Burned bool `json:"burned"`
}

// State is the whole game: ring, burns, turn order, assignments, pending
// effect and wheel angle. It is not safe for concurrent use.
type State struct {
	specials   []SpecialSlot
	layout     Layout
	extraSpins int
	rng        RandFunc
	resolver   *Resolver
	listener   func(Event)

	prizes      []string
	ring        Ring
	burns       *Burns
	turns       *Turns
	assignments map[string]string
	pending     *PendingEffect
	plan        *SpinPlan
	rotation    Rotation
}

// New builds a game from cfg. Empty player or prize lists fall back to the
// defaults.
func New(cfg Config, opts ...Option) *State {
	s := &State{
		specials:   uniqueSpecials(cfg.Specials),
		layout:     cfg.Layout,
		extraSpins: cfg.ExtraSpins,
		rng:        DefaultRand(),
	}
	if s.layout == "" {
		s.layout = LayoutInterleaved
	}
	if s.extraSpins <= 0 {
		s.extraSpins = DefaultExtraSpins
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(s.rng)
	s.Reset(cfg.Players, cfg.Prizes)
	return s
}

// Reset starts over with new players and prizes. Specials and layout are kept.
func (s *State) Reset(players, prizes []string) {
	players = NormalizeNames(players)
	if len(players) == 0 {
		players = DefaultPlayers()
	}
	prizes = NormalizeNames(prizes)
	if len(prizes) == 0 {
		prizes = DefaultPrizes()
	}
	s.prizes = prizes
	s.ring = BuildSegments(prizes, s.specials, s.layout)
	s.burns = NewBurns()
	s.turns = NewTurns(players)
	s.assignments = make(map[string]string)
	s.pending = nil
	s.plan = nil
	s.rotation.Reset()
	s.emit(Event{Kind: EventReset})
}

// NormalizeNames trims entries, drops blanks and drops repeats.
func NormalizeNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, name := range in {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func uniqueSpecials(in []SpecialSlot) []SpecialSlot {
	seen := make(map[EffectCode]struct{}, len(in))
	out := make([]SpecialSlot, 0, len(in))
	for _, slot := range in {
		if slot.Code == "" {
			continue
		}
		if _, ok := seen[slot.Code]; ok {
			continue
		}
		seen[slot.Code] = struct{}{}
		if slot.Kind != KindBonus && slot.Kind != KindMalus {
			slot.Kind = KindMalus
			if strings.HasPrefix(string(slot.Code), "BONUS") {
				slot.Kind = KindBonus
			}
		}
		if slot.Label == "" {
			slot.Label = string(slot.Code)
		}
		out = append(out, slot)
	}
	return out
}

func (s *State) emit(e Event) {
	if s.listener != nil {
		s.listener(e)
	}
}

// Segments returns the ring with burn flags.
func (s *State) Segments() []SegmentState {
	out := make([]SegmentState, len(s.ring))
	for i, seg := range s.ring {
		out[i] = SegmentState{Segment: seg, Burned: s.burns.IsBurned(seg)}
	}
	return out
}

// Ring returns the segment layout.
func (s *State) Ring() Ring {
	return append(Ring(nil), s.ring...)
}

// IsBurned reports whether the segment with id is burned. Unknown IDs are
// reported as not burned.
func (s *State) IsBurned(id string) bool {
	seg, ok := s.ring.ByID(id)
	if !ok {
		return false
	}
	return s.burns.IsBurned(seg)
}

func (s *State) CurrentPlayer() string {
	return s.turns.Current()
}

// Order returns the current turn sequence.
func (s *State) Order() []string {
	return s.turns.Order()
}

// Players returns every player in turn order with their status.
func (s *State) Players() []PlayerState {
	current := s.turns.Current()
	order := s.turns.Order()
	out := make([]PlayerState, 0, len(order))
	for _, name := range order {
		ps := PlayerState{Name: name, Current: name == current}
		prize, assigned := s.assignments[name]
		switch {
		case assigned:
			ps.Status = StatusAssigned
			ps.Prize = prize
		case s.turns.HasSkip(name):
			ps.Status = StatusMustSkip
		case ps.Current:
			ps.Status = StatusActive
		default:
			ps.Status = StatusWaiting
		}
		out = append(out, ps)
	}
	return out
}

// Assignments returns a copy of the player to prize table.
func (s *State) Assignments() map[string]string {
	out := make(map[string]string, len(s.assignments))
	for k, v := range s.assignments {
		out[k] = v
	}
	return out
}

// Prizes returns every prize label of the current round in setup order.
func (s *State) Prizes() []string {
	return append([]string(nil), s.prizes...)
}

// AvailablePrizes returns unburned prize labels in setup order.
func (s *State) AvailablePrizes() []string {
	out := make([]string, 0, len(s.prizes))
	for _, p := range s.prizes {
		if !s.burns.PrizeBurned(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) RemainingPrizeCount() int {
	n := 0
	for _, p := range s.prizes {
		if !s.burns.PrizeBurned(p) {
			n++
		}
	}
	return n
}

// BurnedPrizes returns burned prize labels, numerically sorted.
func (s *State) BurnedPrizes() []string {
	return s.burns.SortedPrizes()
}

// BurnedSpecials returns the burned special slots in burn order.
func (s *State) BurnedSpecials() []SpecialSlot {
	var out []SpecialSlot
	for _, code := range s.burns.Specials() {
		if seg, ok := s.ring.ByID(string(code)); ok {
			out = append(out, seg.Special())
		}
	}
	return out
}

// PendingEffect returns the effect waiting for input, if any.
func (s *State) PendingEffect() (PendingEffect, bool) {
	if s.pending == nil {
		return PendingEffect{}, false
	}
	return s.pending.clone(), true
}

// Finished reports whether every prize is burned.
func (s *State) Finished() bool {
	return s.RemainingPrizeCount() == 0
}

// Spinning reports whether a planned spin has not landed yet.
func (s *State) Spinning() bool {
	return s.plan != nil
}

// Rotation returns the accumulated wheel angle in degrees.
func (s *State) Rotation() float64 {
	return s.rotation.Degrees()
}

// CanSpin returns nil when the current player may spin, or the reason not.
func (s *State) CanSpin() error {
	if s.plan != nil {
		return ErrSpinInProgress
	}
	if s.pending != nil {
		return ErrPendingEffect
	}
	if s.Finished() {
		return ErrGameFinished
	}
	current := s.turns.Current()
	if _, ok := s.assignments[current]; ok {
		return ErrAlreadyAssigned
	}
	if s.turns.HasSkip(current) {
		return ErrMustSkip
	}
	return nil
}

// PlanSpin resolves a spin for the current player and computes the
// animation, but does not apply the landing. Other actions are rejected
// until Land is called.
func (s *State) PlanSpin() (SpinPlan, error) {
	if err := s.CanSpin(); err != nil {
		return SpinPlan{}, err
	}
	res, err := s.resolver.Spin(s.ring, s.burns)
	if err != nil {
		return SpinPlan{}, err
	}
	n := len(s.ring)
	path := res.Path(n)
	steps := make([]SpinStep, 0, len(path))
	for i, idx := range path {
		extra := 0
		if i == 0 {
			extra = s.extraSpins
		}
		steps = append(steps, SpinStep{Index: idx, Angle: s.rotation.Advance(idx, n, extra)})
	}
	plan := SpinPlan{
		Player:  s.turns.Current(),
		Result:  res,
		Steps:   steps,
		Segment: s.ring[res.Final],
	}
	s.plan = &plan
	s.emit(Event{Kind: EventSpinStarted, Player: plan.Player})
	return plan, nil
}

// Land applies the planned spin's outcome.
func (s *State) Land() (Landing, error) {
	if s.plan == nil {
		return Landing{}, ErrNoSpinPlanned
	}
	plan := *s.plan
	s.plan = nil
	seg := plan.Segment
	landing := Landing{Player: plan.Player, Segment: seg}
	if seg.IsSpecial() {
		s.pending = s.applySpecial(seg, plan.Player)
		p := s.pending.clone()
		landing.Pending = &p
	} else {
		s.assign(plan.Player, seg.Prize)
		_ = s.turns.AdvanceFrom(plan.Player)
		landing.Assigned = seg.Prize
	}
	s.emit(Event{Kind: EventLanded, Player: plan.Player, Segment: &seg, Effect: landing.Pending, Prize: landing.Assigned})
	return landing, nil
}

// Spin plans and lands in one call.
func (s *State) Spin() (Landing, error) {
	if _, err := s.PlanSpin(); err != nil {
		return Landing{}, err
	}
	return s.Land()
}

func (s *State) assign(player, prize string) {
	s.assignments[player] = prize
	s.burns.BurnPrize(prize)
}

func (s *State) pendingOf(kinds ...PendingKind) (*PendingEffect, error) {
	if s.plan != nil {
		return nil, ErrSpinInProgress
	}
	if s.pending == nil {
		return nil, ErrNoPendingEffect
	}
	for _, k := range kinds {
		if s.pending.Kind == k {
			return s.pending, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWrongPendingKind, s.pending.Kind)
}

func (s *State) resolve(p *PendingEffect, prize, from string) {
	s.pending = nil
	resolved := p.clone()
	s.emit(Event{Kind: EventPendingResolved, Player: p.Player, Effect: &resolved, Prize: prize, From: from})
}

// ChoosePrize resolves a choice or pick-any effect with label.
func (s *State) ChoosePrize(label string) error {
	p, err := s.pendingOf(PendingChoice, PendingPickAny)
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if p.Kind == PendingChoice && !contains(p.Options, label) {
		return fmt.Errorf("%w: %q is not an option", ErrInvalidPendingInput, label)
	}
	if !contains(s.prizes, label) || s.burns.PrizeBurned(label) {
		return fmt.Errorf("%w: %q is not available", ErrInvalidPendingInput, label)
	}
	s.assign(p.Player, label)
	_ = s.turns.AdvanceFrom(p.Player)
	s.resolve(p, label, "")
	return nil
}

// AcceptForced resolves a forced effect by assigning its prize.
func (s *State) AcceptForced() error {
	p, err := s.pendingOf(PendingForced)
	if err != nil {
		return err
	}
	s.assign(p.Player, p.Prize)
	_ = s.turns.AdvanceFrom(p.Player)
	s.resolve(p, p.Prize, "")
	return nil
}

// SwapWith resolves a swap by taking target's prize. An empty target is
// accepted when there is exactly one candidate.
func (s *State) SwapWith(target string) error {
	p, err := s.pendingOf(PendingSwap)
	if err != nil {
		return err
	}
	target = strings.TrimSpace(target)
	if target == "" && len(p.Targets) == 1 {
		target = p.Targets[0]
	}
	if !contains(p.Targets, target) {
		return fmt.Errorf("%w: %q is not a swap target", ErrInvalidPendingInput, target)
	}
	prize, ok := s.assignments[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInconsistentSwapTarget, target)
	}
	delete(s.assignments, target)
	s.assignments[p.Player] = prize
	_ = s.turns.AdvanceFrom(p.Player)
	s.resolve(p, prize, target)
	return nil
}

// Continue acknowledges an informational effect and passes the turn.
func (s *State) Continue() error {
	p, err := s.pendingOf(PendingInfo)
	if err != nil {
		return err
	}
	switch p.Code {
	case CodeMoveToBack, CodeSwapWithNext:
		next, err := s.turns.Successor(p.Player)
		if err != nil {
			return err
		}
		if p.Code == CodeMoveToBack {
			err = s.turns.MoveToEnd(p.Player)
		} else {
			err = s.turns.SwapWithNext(p.Player)
		}
		if err != nil {
			return err
		}
		_ = s.turns.AdvanceTo(next)
	default:
		_ = s.turns.AdvanceFrom(p.Player)
	}
	s.resolve(p, "", "")
	return nil
}

// SkipTurn serves the current player's skip flag and passes the turn.
func (s *State) SkipTurn() error {
	if s.plan != nil {
		return ErrSpinInProgress
	}
	if s.pending != nil {
		return ErrPendingEffect
	}
	if !s.turns.ConsumeSkip(s.turns.Current()) {
		return ErrNoSkip
	}
	s.turns.Advance()
	return nil
}

// PassTurn moves past a current player who already holds a prize.
func (s *State) PassTurn() error {
	if s.plan != nil {
		return ErrSpinInProgress
	}
	if s.pending != nil {
		return ErrPendingEffect
	}
	if _, ok := s.assignments[s.turns.Current()]; !ok {
		return ErrNoPrizeHeld
	}
	s.turns.Advance()
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
