package wheel

import "fmt"

// Turns owns the player order, the turn cursor and the skip flags.
// Reorders keep the cursor on the same player.
type Turns struct {
	order  []string
	cursor int
	skips  map[string]struct{}
}

func NewTurns(players []string) *Turns {
	return &Turns{
		order: append([]string(nil), players...),
		skips: make(map[string]struct{}),
	}
}

// Order returns a copy of the turn sequence.
func (t *Turns) Order() []string {
	return append([]string(nil), t.order...)
}

func (t *Turns) Len() int {
	return len(t.order)
}

func (t *Turns) Cursor() int {
	return t.cursor
}

// Current returns the player whose turn it is.
func (t *Turns) Current() string {
	if len(t.order) == 0 {
		return ""
	}
	return t.order[t.cursor]
}

// IndexOf returns the player's position, or -1.
func (t *Turns) IndexOf(name string) int {
	for i, p := range t.order {
		if p == name {
			return i
		}
	}
	return -1
}

// Advance moves the cursor to the next player.
func (t *Turns) Advance() {
	if len(t.order) == 0 {
		return
	}
	t.cursor = (t.cursor + 1) % len(t.order)
}

// AdvanceFrom moves the cursor to whoever currently follows name.
func (t *Turns) AdvanceFrom(name string) error {
	i := t.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	t.cursor = (i + 1) % len(t.order)
	return nil
}

// AdvanceTo puts the cursor on name.
func (t *Turns) AdvanceTo(name string) error {
	i := t.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	t.cursor = i
	return nil
}

// Successor returns the player currently seated after name.
func (t *Turns) Successor(name string) (string, error) {
	i := t.IndexOf(name)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	return t.order[(i+1)%len(t.order)], nil
}

// MoveToEnd sends name to the back of the order.
func (t *Turns) MoveToEnd(name string) error {
	i := t.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	return t.reorder(func() {
		t.order = append(append(t.order[:i:i], t.order[i+1:]...), name)
	})
}

// SwapWithNext exchanges name with the player after it, wrapping at the end.
func (t *Turns) SwapWithNext(name string) error {
	i := t.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	j := (i + 1) % len(t.order)
	return t.reorder(func() {
		t.order[i], t.order[j] = t.order[j], t.order[i]
	})
}

// MoveAfter places name directly after ref.
func (t *Turns) MoveAfter(name, ref string) error {
	i := t.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	if t.IndexOf(ref) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, ref)
	}
	if name == ref {
		return nil
	}
	return t.reorder(func() {
		rest := append(t.order[:i:i], t.order[i+1:]...)
		out := make([]string, 0, len(t.order))
		for _, p := range rest {
			out = append(out, p)
			if p == ref {
				out = append(out, name)
			}
		}
		t.order = out
	})
}

func (t *Turns) reorder(apply func()) error {
	current := t.Current()
	apply()
	if current != "" {
		t.cursor = t.IndexOf(current)
	}
	return nil
}

func (t *Turns) MarkSkip(name string) {
	t.skips[name] = struct{}{}
}

func (t *Turns) HasSkip(name string) bool {
	_, ok := t.skips[name]
	return ok
}

// ConsumeSkip clears name's skip flag and reports whether one was set.
func (t *Turns) ConsumeSkip(name string) bool {
	if !t.HasSkip(name) {
		return false
	}
	delete(t.skips, name)
	return true
}
