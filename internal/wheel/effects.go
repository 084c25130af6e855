package wheel

import (
	"fmt"
	"strconv"
	"strings"
)

// PendingKind tells the caller which action resolves a pending effect.
type PendingKind string

const (
	// PendingChoice is resolved with ChoosePrize using one of Options.
	PendingChoice PendingKind = "choice"
	// PendingPickAny is resolved with ChoosePrize using any available prize.
	PendingPickAny PendingKind = "pick_any"
	// PendingForced is resolved with AcceptForced.
	PendingForced PendingKind = "forced"
	// PendingSwap is resolved with SwapWith using one of Targets.
	PendingSwap PendingKind = "swap"
	// PendingInfo is resolved with Continue.
	PendingInfo PendingKind = "info"
)

// PendingEffect is the outcome of a special segment waiting for input.
type PendingEffect struct {
	Kind    PendingKind `json:"kind"`
	Code    EffectCode  `json:"code"`
	Player  string      `json:"player"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Options []string    `json:"options,omitempty"`
	Prize   string      `json:"prize,omitempty"`
	Targets []string    `json:"targets,omitempty"`
}

func (p PendingEffect) clone() PendingEffect {
	p.Options = append([]string(nil), p.Options...)
	p.Targets = append([]string(nil), p.Targets...)
	return p
}

// applySpecial burns the slot and runs the handler for its code.
func (s *State) applySpecial(seg Segment, player string) *PendingEffect {
	s.burns.BurnSpecial(seg.Code)
	slot := seg.Special()
	switch seg.Code {
	case CodePickOneOfTwo:
		return s.pickOneOfTwo(slot, player)
	case CodeSwapWithAssigned:
		return s.swapWithAssigned(slot, player)
	case CodePickAny:
		return s.pickAny(slot, player)
	case CodeForcedWorstOfTwo:
		return s.forcedWorstOfTwo(slot, player)
	case CodeSkipNextTurn:
		s.turns.MarkSkip(player)
		return &PendingEffect{
			Kind:    PendingInfo,
			Code:    slot.Code,
			Player:  player,
			Title:   slot.Label,
			Message: fmt.Sprintf("%s will sit out their next turn.", player),
		}
	case CodeMoveToBack:
		return &PendingEffect{
			Kind:    PendingInfo,
			Code:    slot.Code,
			Player:  player,
			Title:   slot.Label,
			Message: fmt.Sprintf("%s moves to the back of the line.", player),
		}
	case CodeSwapWithNext:
		return &PendingEffect{
			Kind:    PendingInfo,
			Code:    slot.Code,
			Player:  player,
			Title:   slot.Label,
			Message: fmt.Sprintf("%s trades places with the next player.", player),
		}
	default:
		return &PendingEffect{
			Kind:    PendingInfo,
			Code:    slot.Code,
			Player:  player,
			Title:   slot.Label,
			Message: "Nothing happens.",
		}
	}
}

func (s *State) pickOneOfTwo(slot SpecialSlot, player string) *PendingEffect {
	a, b, ok := s.sampleTwo()
	if !ok {
		return noPrizesLeft(slot, player)
	}
	return &PendingEffect{
		Kind:    PendingChoice,
		Code:    slot.Code,
		Player:  player,
		Title:   slot.Label,
		Message: fmt.Sprintf("%s picks one of two prizes.", player),
		Options: []string{a, b},
	}
}

func (s *State) forcedWorstOfTwo(slot SpecialSlot, player string) *PendingEffect {
	a, b, ok := s.sampleTwo()
	if !ok {
		return noPrizesLeft(slot, player)
	}
	worst := WorseOf(a, b)
	return &PendingEffect{
		Kind:    PendingForced,
		Code:    slot.Code,
		Player:  player,
		Title:   slot.Label,
		Message: fmt.Sprintf("Drawn %s and %s: %s gets %s.", a, b, player, worst),
		Options: []string{a, b},
		Prize:   worst,
	}
}

func (s *State) swapWithAssigned(slot SpecialSlot, player string) *PendingEffect {
	var targets []string
	for _, name := range s.turns.Order() {
		if name == player {
			continue
		}
		if _, ok := s.assignments[name]; ok {
			targets = append(targets, name)
		}
	}
	if len(targets) == 0 {
		p := s.pickOneOfTwo(slot, player)
		if p.Kind == PendingChoice {
			p.Message = "Nobody holds a prize yet. " + p.Message
		}
		return p
	}
	msg := fmt.Sprintf("%s takes the prize held by %s.", player, targets[0])
	if len(targets) > 1 {
		msg = fmt.Sprintf("%s chooses whose prize to take.", player)
	}
	return &PendingEffect{
		Kind:    PendingSwap,
		Code:    slot.Code,
		Player:  player,
		Title:   slot.Label,
		Message: msg,
		Targets: targets,
	}
}

func (s *State) pickAny(slot SpecialSlot, player string) *PendingEffect {
	avail := s.AvailablePrizes()
	if len(avail) == 0 {
		return noPrizesLeft(slot, player)
	}
	return &PendingEffect{
		Kind:    PendingPickAny,
		Code:    slot.Code,
		Player:  player,
		Title:   slot.Label,
		Message: fmt.Sprintf("%s names any prize still on the wheel.", player),
		Options: avail,
	}
}

func noPrizesLeft(slot SpecialSlot, player string) *PendingEffect {
	return &PendingEffect{
		Kind:    PendingInfo,
		Code:    slot.Code,
		Player:  player,
		Title:   slot.Label,
		Message: "No prizes left.",
	}
}

// sampleTwo draws two distinct available prizes. With one prize left both
// draws are the same label.
func (s *State) sampleTwo() (string, string, bool) {
	avail := s.AvailablePrizes()
	if len(avail) == 0 {
		return "", "", false
	}
	a := avail[s.rng(len(avail))]
	if len(avail) == 1 {
		return a, a, true
	}
	rest := make([]string, 0, len(avail)-1)
	for _, p := range avail {
		if p != a {
			rest = append(rest, p)
		}
	}
	return a, rest[s.rng(len(rest))], true
}

// WorseOf returns the worse of two drawn prizes: the higher number when both
// labels are integers, otherwise the second draw.
func WorseOf(first, second string) string {
	a, errA := strconv.Atoi(strings.TrimSpace(first))
	b, errB := strconv.Atoi(strings.TrimSpace(second))
	if errA != nil || errB != nil {
		return second
	}
	if a > b {
		return first
	}
	return second
}

func prizeRank(label string) int {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 1_000_000_000
	}
	return n
}
