package wheel

import "sort"

// Kind classifies a wheel segment.
type Kind string

const (
	KindPrize Kind = "prize"
	KindBonus Kind = "bonus"
	KindMalus Kind = "malus"
)

// EffectCode identifies what a special segment does when landed on.
type EffectCode string

const (
	CodePickOneOfTwo     EffectCode = "BONUS_2PICK"
	CodeSwapWithAssigned EffectCode = "BONUS_SWAP"
	CodePickAny          EffectCode = "BONUS_PICK_ANY"
	CodeForcedWorstOfTwo EffectCode = "MALUS_WORST2"
	CodeSkipNextTurn     EffectCode = "MALUS_SKIP"
	CodeMoveToBack       EffectCode = "MALUS_TO_BACK"
	CodeSwapWithNext     EffectCode = "MALUS_SWAP_NEXT"
)

// KnownCode reports whether the engine has a dedicated handler for code.
func KnownCode(code EffectCode) bool {
	switch code {
	case CodePickOneOfTwo, CodeSwapWithAssigned, CodePickAny,
		CodeForcedWorstOfTwo, CodeSkipNextTurn, CodeMoveToBack, CodeSwapWithNext:
		return true
	}
	return false
}

// SpecialSlot is a bonus or malus segment definition.
type SpecialSlot struct {
	Code  EffectCode `json:"code"`
	Label string     `json:"label"`
	Kind  Kind       `json:"kind"`
}

// DefaultSpecials returns the stock set of special segments, in ring order.
func DefaultSpecials() []SpecialSlot {
	return []SpecialSlot{
		{Code: CodePickOneOfTwo, Label: "Pick 1 of 2", Kind: KindBonus},
		{Code: CodeSwapWithAssigned, Label: "Steal a prize", Kind: KindBonus},
		{Code: CodeForcedWorstOfTwo, Label: "Worst of 2", Kind: KindMalus},
		{Code: CodeSkipNextTurn, Label: "Skip next turn", Kind: KindMalus},
	}
}

// Layout decides where special segments sit relative to prizes.
type Layout string

const (
	// LayoutInterleaved spreads specials evenly between groups of prizes.
	LayoutInterleaved Layout = "interleaved"
	// LayoutAppended places every prize first, then every special.
	LayoutAppended Layout = "appended"
)

// Segment is one slice of the wheel. Prize is set for prize segments and
// Code for special ones.
type Segment struct {
	Index int        `json:"index"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Kind  Kind       `json:"kind"`
	Prize string     `json:"prize,omitempty"`
	Code  EffectCode `json:"code,omitempty"`
}

// IsSpecial reports whether the segment is a bonus or malus slot.
func (s Segment) IsSpecial() bool {
	return s.Kind != KindPrize
}

// Special returns the slot definition behind a special segment.
func (s Segment) Special() SpecialSlot {
	return SpecialSlot{Code: s.Code, Label: s.Label, Kind: s.Kind}
}

// PrizeSegmentID returns the segment ID used for a prize label.
func PrizeSegmentID(label string) string {
	return "PRIZE_" + label
}

// Ring is the fixed, ordered list of wheel segments.
type Ring []Segment

// BuildSegments lays out prizes and specials on a ring. Segment order is
// deterministic for a given input.
func BuildSegments(prizes []string, specials []SpecialSlot, layout Layout) Ring {
	prizeSegs := make([]Segment, 0, len(prizes))
	for _, label := range prizes {
		prizeSegs = append(prizeSegs, Segment{
			ID:    PrizeSegmentID(label),
			Label: label,
			Kind:  KindPrize,
			Prize: label,
		})
	}
	specialSegs := make([]Segment, 0, len(specials))
	for _, slot := range specials {
		specialSegs = append(specialSegs, Segment{
			ID:    string(slot.Code),
			Label: slot.Label,
			Kind:  slot.Kind,
			Code:  slot.Code,
		})
	}

	var ring Ring
	if layout == LayoutAppended || len(specialSegs) == 0 {
		ring = append(append(ring, prizeSegs...), specialSegs...)
	} else {
		ring = interleave(prizeSegs, specialSegs)
	}
	for i := range ring {
		ring[i].Index = i
	}
	return ring
}

// interleave splits prizes into len(specials) consecutive groups, earlier
// groups taking the remainder, and follows each group with one special.
func interleave(prizes, specials []Segment) Ring {
	out := make(Ring, 0, len(prizes)+len(specials))
	base := len(prizes) / len(specials)
	extra := len(prizes) % len(specials)
	k := 0
	for j, special := range specials {
		size := base
		if j < extra {
			size++
		}
		out = append(out, prizes[k:k+size]...)
		k += size
		out = append(out, special)
	}
	return out
}

// ByID looks a segment up by its ID.
func (r Ring) ByID(id string) (Segment, bool) {
	for _, seg := range r {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

// BurnChecker answers whether a segment may still be landed on.
type BurnChecker interface {
	IsBurned(seg Segment) bool
}

// Burns tracks burned prize labels and burned special slots. Entries are
// never removed except by starting a new set.
type Burns struct {
	prizes       map[string]struct{}
	specials     map[EffectCode]struct{}
	prizeOrder   []string
	specialOrder []EffectCode
}

func NewBurns() *Burns {
	return &Burns{
		prizes:   make(map[string]struct{}),
		specials: make(map[EffectCode]struct{}),
	}
}

func (b *Burns) BurnPrize(label string) {
	if _, ok := b.prizes[label]; ok {
		return
	}
	b.prizes[label] = struct{}{}
	b.prizeOrder = append(b.prizeOrder, label)
}

func (b *Burns) BurnSpecial(code EffectCode) {
	if _, ok := b.specials[code]; ok {
		return
	}
	b.specials[code] = struct{}{}
	b.specialOrder = append(b.specialOrder, code)
}

func (b *Burns) PrizeBurned(label string) bool {
	_, ok := b.prizes[label]
	return ok
}

func (b *Burns) SpecialBurned(code EffectCode) bool {
	_, ok := b.specials[code]
	return ok
}

// IsBurned implements BurnChecker.
func (b *Burns) IsBurned(seg Segment) bool {
	if seg.IsSpecial() {
		return b.SpecialBurned(seg.Code)
	}
	return b.PrizeBurned(seg.Prize)
}

// Prizes returns burned prize labels in burn order.
func (b *Burns) Prizes() []string {
	return append([]string(nil), b.prizeOrder...)
}

// Specials returns burned special codes in burn order.
func (b *Burns) Specials() []EffectCode {
	return append([]EffectCode(nil), b.specialOrder...)
}

// SortedPrizes returns burned prize labels sorted numerically when possible.
func (b *Burns) SortedPrizes() []string {
	out := b.Prizes()
	sort.SliceStable(out, func(i, j int) bool {
		return prizeRank(out[i]) < prizeRank(out[j])
	})
	return out
}
