package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays values in order; each is reduced modulo n.
func scripted(values ...int) RandFunc {
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

func newPlain(t *testing.T, rng RandFunc) *State {
	t.Helper()
	return New(Config{Specials: nil}, WithRand(rng))
}

func TestBuildSegments_PrizesOnly(t *testing.T) {
	ring := BuildSegments(DefaultPrizes(), nil, LayoutInterleaved)
	require.Len(t, ring, 10)
	for i, seg := range ring {
		assert.Equal(t, i, seg.Index)
		assert.Equal(t, KindPrize, seg.Kind)
	}
	assert.Equal(t, "PRIZE_4", ring[3].ID)
	assert.Equal(t, "4", ring[3].Prize)
}

func TestBuildSegments_Interleaved(t *testing.T) {
	ring := BuildSegments(DefaultPrizes(), DefaultSpecials(), LayoutInterleaved)
	require.Len(t, ring, 14)

	var specials []int
	for _, seg := range ring {
		if seg.IsSpecial() {
			specials = append(specials, seg.Index)
		}
	}
	assert.Equal(t, []int{3, 7, 10, 13}, specials)
	assert.Equal(t, "BONUS_2PICK", ring[3].ID)
	assert.Equal(t, "MALUS_SKIP", ring[13].ID)
	assert.Equal(t, "4", ring[4].Prize)
}

func TestBuildSegments_Appended(t *testing.T) {
	ring := BuildSegments(DefaultPrizes(), DefaultSpecials(), LayoutAppended)
	require.Len(t, ring, 14)
	assert.Equal(t, "10", ring[9].Prize)
	assert.Equal(t, CodePickOneOfTwo, ring[10].Code)
	assert.Equal(t, CodeSwapWithAssigned, ring[11].Code)
	assert.Equal(t, CodeForcedWorstOfTwo, ring[12].Code)
	assert.Equal(t, CodeSkipNextTurn, ring[13].Code)
}

func TestBuildSegments_MoreSpecialsThanPrizes(t *testing.T) {
	ring := BuildSegments([]string{"a"}, DefaultSpecials(), LayoutInterleaved)
	require.Len(t, ring, 5)
	assert.Equal(t, "a", ring[0].Prize)
	for _, seg := range ring[1:] {
		assert.True(t, seg.IsSpecial())
	}
}

func TestResolve_NoBurns(t *testing.T) {
	ring := BuildSegments(DefaultPrizes(), nil, LayoutInterleaved)
	res, err := Resolve(ring, NewBurns(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Start)
	assert.Equal(t, 3, res.Final)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, []int{3}, res.Path(len(ring)))
}

func TestResolve_WrapsAroundBurned(t *testing.T) {
	ring := BuildSegments([]string{"a", "b", "c"}, nil, LayoutInterleaved)
	burns := NewBurns()
	burns.BurnPrize("c")
	burns.BurnPrize("a")

	res, err := Resolve(ring, burns, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, res.Skipped)
	assert.Equal(t, 1, res.Final)
	assert.Equal(t, []int{2, 0, 1}, res.Path(len(ring)))
}

func TestResolve_AllBurned(t *testing.T) {
	ring := BuildSegments([]string{"a", "b"}, nil, LayoutInterleaved)
	burns := NewBurns()
	burns.BurnPrize("a")
	burns.BurnPrize("b")

	_, err := Resolve(ring, burns, 0)
	assert.ErrorIs(t, err, ErrAllSegmentsBurned)

	_, err = Resolve(nil, burns, 0)
	assert.ErrorIs(t, err, ErrAllSegmentsBurned)
}

func TestTargetAngle(t *testing.T) {
	assert.InDelta(t, 1800+234.0, TargetAngle(3, 10, 5), 1e-9)
	assert.InDelta(t, 342.0, TargetAngle(0, 10, 0), 1e-9)
	assert.InDelta(t, 18.0, TargetAngle(9, 10, 0), 1e-9)
	assert.InDelta(t, 180.0, TargetAngle(0, 1, 0), 1e-9)
}

func TestRotation_AdvanceLandsOnTarget(t *testing.T) {
	var r Rotation
	got := r.Advance(3, 10, 5)
	assert.InDelta(t, TargetAngle(3, 10, 5), got, 1e-9)

	prev := got
	for _, idx := range []int{4, 5, 0, 9, 9, 2} {
		got = r.Advance(idx, 10, 0)
		assert.GreaterOrEqual(t, got, prev)
		assert.InDelta(t, TargetAngle(idx, 10, 0), normalize(got), 1e-6)
		prev = got
	}
	r.Reset()
	assert.Zero(t, r.Degrees())
}

func TestTurns_AdvanceFromAndReorders(t *testing.T) {
	tr := NewTurns([]string{"A", "B", "C", "D"})
	assert.Equal(t, "A", tr.Current())

	require.NoError(t, tr.AdvanceFrom("B"))
	assert.Equal(t, "C", tr.Current())

	require.NoError(t, tr.MoveToEnd("C"))
	assert.Equal(t, []string{"A", "B", "D", "C"}, tr.Order())
	assert.Equal(t, "C", tr.Current())

	require.NoError(t, tr.SwapWithNext("A"))
	assert.Equal(t, []string{"B", "A", "D", "C"}, tr.Order())

	require.NoError(t, tr.MoveAfter("B", "D"))
	assert.Equal(t, []string{"A", "D", "B", "C"}, tr.Order())
	assert.Equal(t, "C", tr.Current())

	require.NoError(t, tr.SwapWithNext("C"))
	assert.Equal(t, []string{"C", "D", "B", "A"}, tr.Order())

	assert.ErrorIs(t, tr.AdvanceFrom("Z"), ErrUnknownPlayer)
	assert.ErrorIs(t, tr.MoveAfter("A", "Z"), ErrUnknownPlayer)
}

func TestTurns_OrderStaysPermutation(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E"}
	tr := NewTurns(players)
	ops := []func(){
		func() { _ = tr.MoveToEnd("B") },
		func() { _ = tr.SwapWithNext("E") },
		func() { _ = tr.MoveAfter("A", "C") },
		func() { _ = tr.AdvanceFrom("D") },
		func() { _ = tr.MoveToEnd("A") },
		func() { _ = tr.SwapWithNext("C") },
	}
	for _, op := range ops {
		op()
		assert.ElementsMatch(t, players, tr.Order())
		assert.Len(t, tr.Order(), len(players))
	}
}

func TestTurns_Skip(t *testing.T) {
	tr := NewTurns([]string{"A", "B"})
	assert.False(t, tr.ConsumeSkip("A"))
	tr.MarkSkip("A")
	assert.True(t, tr.HasSkip("A"))
	assert.True(t, tr.ConsumeSkip("A"))
	assert.False(t, tr.HasSkip("A"))
}

func TestScenarioA_FirstSpinAssignsPrize(t *testing.T) {
	s := newPlain(t, scripted(3))
	require.Len(t, s.Segments(), 10)

	landing, err := s.Spin()
	require.NoError(t, err)
	assert.Equal(t, "Player 1", landing.Player)
	assert.Equal(t, "4", landing.Assigned)
	assert.Equal(t, map[string]string{"Player 1": "4"}, s.Assignments())
	assert.Equal(t, []string{"4"}, s.BurnedPrizes())
	assert.True(t, s.IsBurned("PRIZE_4"))
	assert.Equal(t, 1, s.turns.Cursor())
	assert.Equal(t, "Player 2", s.CurrentPlayer())
	assert.Equal(t, 9, s.RemainingPrizeCount())
	assert.InDelta(t, TargetAngle(3, 10, 5), s.Rotation(), 1e-9)
}

func TestScenarioB_SkipsBurnedSegment(t *testing.T) {
	s := newPlain(t, scripted(3, 3))
	_, err := s.Spin()
	require.NoError(t, err)

	plan, err := s.PlanSpin()
	require.NoError(t, err)
	assert.Equal(t, []int{3}, plan.Result.Skipped)
	assert.Equal(t, 4, plan.Result.Final)
	assert.Equal(t, "5", plan.Segment.Prize)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, 3, plan.Steps[0].Index)
	assert.Equal(t, 4, plan.Steps[1].Index)
	assert.Greater(t, plan.Steps[1].Angle, plan.Steps[0].Angle)

	landing, err := s.Land()
	require.NoError(t, err)
	assert.Equal(t, "Player 2", landing.Player)
	assert.Equal(t, "5", landing.Assigned)
}

func TestScenarioC_ForcedWorstOfTwo(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeForcedWorstOfTwo, Label: "Worst of 2", Kind: KindMalus}}
	// Appended layout puts the special at index 10. Available prizes are
	// "1".."10": draw index 1 ("2"), then index 5 of the remaining nine ("7").
	s := New(Config{Specials: specials, Layout: LayoutAppended}, WithRand(scripted(10, 1, 5)))

	landing, err := s.Spin()
	require.NoError(t, err)
	require.NotNil(t, landing.Pending)
	assert.Equal(t, PendingForced, landing.Pending.Kind)
	assert.Equal(t, []string{"2", "7"}, landing.Pending.Options)
	assert.Equal(t, "7", landing.Pending.Prize)
	assert.True(t, s.IsBurned(string(CodeForcedWorstOfTwo)))

	_, err = s.Spin()
	assert.ErrorIs(t, err, ErrPendingEffect)

	require.NoError(t, s.AcceptForced())
	assert.Equal(t, "7", s.Assignments()["Player 1"])
	assert.Contains(t, s.BurnedPrizes(), "7")
	assert.Equal(t, "Player 2", s.CurrentPlayer())
	_, pending := s.PendingEffect()
	assert.False(t, pending)
}

func TestScenarioD_SwapWithoutAssignmentsDegrades(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeSwapWithAssigned, Label: "Steal", Kind: KindBonus}}
	s := New(Config{Specials: specials, Layout: LayoutAppended}, WithRand(scripted(10, 0, 0)))

	landing, err := s.Spin()
	require.NoError(t, err)
	require.NotNil(t, landing.Pending)
	assert.Equal(t, PendingChoice, landing.Pending.Kind)
	assert.Equal(t, []string{"1", "2"}, landing.Pending.Options)

	err = s.ChoosePrize("9")
	assert.ErrorIs(t, err, ErrInvalidPendingInput)
	require.NoError(t, s.ChoosePrize("2"))
	assert.Equal(t, "2", s.Assignments()["Player 1"])
}

func TestScenarioE_FinishedGameRejectsSpin(t *testing.T) {
	s := New(Config{Players: []string{"A", "B"}, Prizes: []string{"x", "y"}}, WithRand(scripted(0, 0)))
	_, err := s.Spin()
	require.NoError(t, err)
	_, err = s.Spin()
	require.NoError(t, err)
	assert.Zero(t, s.RemainingPrizeCount())
	assert.True(t, s.Finished())

	rot := s.Rotation()
	_, err = s.Spin()
	assert.ErrorIs(t, err, ErrGameFinished)
	assert.False(t, s.Spinning())
	assert.Equal(t, rot, s.Rotation())
}

func TestSwap_TakesPrizeFromTarget(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeSwapWithAssigned, Label: "Steal", Kind: KindBonus}}
	s := New(Config{Players: []string{"A", "B", "C"}, Prizes: []string{"1", "2", "3"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(0, 3)))

	_, err := s.Spin() // A takes "1"
	require.NoError(t, err)
	landing, err := s.Spin() // B lands on the swap
	require.NoError(t, err)
	require.NotNil(t, landing.Pending)
	assert.Equal(t, PendingSwap, landing.Pending.Kind)
	assert.Equal(t, []string{"A"}, landing.Pending.Targets)

	assert.ErrorIs(t, s.SwapWith("C"), ErrInvalidPendingInput)
	require.NoError(t, s.SwapWith(""))
	assert.Equal(t, map[string]string{"B": "1"}, s.Assignments())
	assert.Equal(t, "C", s.CurrentPlayer())
	assert.Equal(t, 2, s.RemainingPrizeCount())
}

func TestSwap_InconsistentTargetIsNoOp(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeSwapWithAssigned, Label: "Steal", Kind: KindBonus}}
	s := New(Config{Players: []string{"A", "B"}, Prizes: []string{"1", "2"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(0, 2)))
	_, err := s.Spin()
	require.NoError(t, err)
	_, err = s.Spin()
	require.NoError(t, err)

	delete(s.assignments, "A")
	before := s.Assignments()
	assert.ErrorIs(t, s.SwapWith("A"), ErrInconsistentSwapTarget)
	assert.Equal(t, before, s.Assignments())
	_, pending := s.PendingEffect()
	assert.True(t, pending)
}

func TestSkipNextTurn(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeSkipNextTurn, Label: "Skip", Kind: KindMalus}}
	s := New(Config{Players: []string{"A", "B"}, Prizes: []string{"1", "2"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(2, 0)))

	landing, err := s.Spin()
	require.NoError(t, err)
	require.NotNil(t, landing.Pending)
	assert.Equal(t, PendingInfo, landing.Pending.Kind)
	assert.ErrorIs(t, s.AcceptForced(), ErrWrongPendingKind)
	require.NoError(t, s.Continue())
	assert.Equal(t, "B", s.CurrentPlayer())

	_, err = s.Spin() // B takes "1"
	require.NoError(t, err)
	assert.Equal(t, "A", s.CurrentPlayer())

	_, err = s.Spin()
	assert.ErrorIs(t, err, ErrMustSkip)
	assert.Equal(t, StatusMustSkip, s.Players()[0].Status)
	require.NoError(t, s.SkipTurn())
	assert.Equal(t, "B", s.CurrentPlayer())
	assert.ErrorIs(t, s.SkipTurn(), ErrNoSkip)

	_, err = s.Spin()
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	require.NoError(t, s.PassTurn())
	assert.Equal(t, "A", s.CurrentPlayer())
	assert.ErrorIs(t, s.PassTurn(), ErrNoPrizeHeld)
}

func TestPickAny(t *testing.T) {
	specials := []SpecialSlot{{Code: CodePickAny, Label: "Your call", Kind: KindBonus}}
	s := New(Config{Players: []string{"A", "B"}, Prizes: []string{"1", "2", "3"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(0, 3)))
	_, err := s.Spin()
	require.NoError(t, err)
	landing, err := s.Spin()
	require.NoError(t, err)
	require.NotNil(t, landing.Pending)
	assert.Equal(t, PendingPickAny, landing.Pending.Kind)

	assert.ErrorIs(t, s.ChoosePrize("1"), ErrInvalidPendingInput)
	assert.ErrorIs(t, s.ChoosePrize("42"), ErrInvalidPendingInput)
	require.NoError(t, s.ChoosePrize(" 3 "))
	assert.Equal(t, "3", s.Assignments()["B"])
}

func TestMoveToBack_NextPlayerKeepsTurn(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeMoveToBack, Label: "Back of the line", Kind: KindMalus}}
	s := New(Config{Players: []string{"A", "B", "C", "D"}, Prizes: []string{"1", "2", "3", "4"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(0, 4)))
	_, err := s.Spin()
	require.NoError(t, err)
	_, err = s.Spin() // B lands on the malus
	require.NoError(t, err)
	require.NoError(t, s.Continue())

	assert.Equal(t, []string{"A", "C", "D", "B"}, s.Order())
	assert.Equal(t, "C", s.CurrentPlayer())
}

func TestSwapWithNext_NextPlayerKeepsTurn(t *testing.T) {
	specials := []SpecialSlot{{Code: CodeSwapWithNext, Label: "Step back", Kind: KindMalus}}
	s := New(Config{Players: []string{"A", "B", "C"}, Prizes: []string{"1", "2", "3"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(3)))
	_, err := s.Spin()
	require.NoError(t, err)
	require.NoError(t, s.Continue())

	assert.Equal(t, []string{"B", "A", "C"}, s.Order())
	assert.Equal(t, "B", s.CurrentPlayer())
}

func TestWorseOf(t *testing.T) {
	assert.Equal(t, "7", WorseOf("2", "7"))
	assert.Equal(t, "7", WorseOf("7", "2"))
	assert.Equal(t, "teddy", WorseOf("3", "teddy"))
	assert.Equal(t, "mug", WorseOf("socks", "mug"))
}

func TestReset_NormalizesAndDefaults(t *testing.T) {
	s := New(Config{Specials: DefaultSpecials()})
	assert.Equal(t, DefaultPlayers(), s.Order())
	assert.Equal(t, 10, s.RemainingPrizeCount())
	assert.Len(t, s.Segments(), 14)

	s.Reset([]string{" Ann ", "", "Bob", "Ann"}, []string{"a", "a", " b"})
	assert.Equal(t, []string{"Ann", "Bob"}, s.Order())
	assert.Equal(t, []string{"a", "b"}, s.AvailablePrizes())
	assert.Empty(t, s.Assignments())
	assert.Zero(t, s.Rotation())
	assert.Empty(t, s.BurnedSpecials())
}

func TestPrizes_KeepsBurnedLabels(t *testing.T) {
	s := New(Config{Players: []string{"A", "B"}, Prizes: []string{"Mug", "Socks"}}, WithRand(scripted(0)))
	_, err := s.Spin()
	require.NoError(t, err)
	assert.Equal(t, []string{"Socks"}, s.AvailablePrizes())
	assert.Equal(t, []string{"Mug", "Socks"}, s.Prizes())

	got := s.Prizes()
	got[0] = "changed"
	assert.Equal(t, "Mug", s.Prizes()[0])
}

func TestPlanSpin_LocksOtherActions(t *testing.T) {
	s := newPlain(t, scripted(0))
	_, err := s.PlanSpin()
	require.NoError(t, err)
	assert.True(t, s.Spinning())

	_, err = s.PlanSpin()
	assert.ErrorIs(t, err, ErrSpinInProgress)
	assert.ErrorIs(t, s.PassTurn(), ErrSpinInProgress)
	assert.ErrorIs(t, s.Continue(), ErrSpinInProgress)

	_, err = s.Land()
	require.NoError(t, err)
	_, err = s.Land()
	assert.ErrorIs(t, err, ErrNoSpinPlanned)
}

func TestListener_ReceivesEvents(t *testing.T) {
	var kinds []EventKind
	specials := []SpecialSlot{{Code: CodeSkipNextTurn, Label: "Skip", Kind: KindMalus}}
	s := New(Config{Players: []string{"A"}, Prizes: []string{"1"}, Specials: specials, Layout: LayoutAppended},
		WithRand(scripted(1)), WithListener(func(e Event) { kinds = append(kinds, e.Kind) }))
	_, err := s.Spin()
	require.NoError(t, err)
	require.NoError(t, s.Continue())

	assert.Equal(t, []EventKind{EventReset, EventSpinStarted, EventLanded, EventPendingResolved}, kinds)
}

// Plays many seeded games with every special on the wheel and checks the
// invariants after each action.
func TestInvariants_RandomGames(t *testing.T) {
	specials := append(DefaultSpecials(),
		SpecialSlot{Code: CodePickAny, Label: "Pick any", Kind: KindBonus},
		SpecialSlot{Code: CodeMoveToBack, Label: "Back", Kind: KindMalus},
		SpecialSlot{Code: CodeSwapWithNext, Label: "Step back", Kind: KindMalus},
	)
	for seed := uint64(1); seed <= 40; seed++ {
		s := New(Config{Specials: specials}, WithRand(SeededRand(seed)))
		players := s.Order()
		burned := map[string]bool{}
		remaining := s.RemainingPrizeCount()
		rot := s.Rotation()
		spins := 0

		for step := 0; step < 500 && !s.Finished(); step++ {
			p, hasPending := s.PendingEffect()
			switch {
			case hasPending && (p.Kind == PendingChoice || p.Kind == PendingPickAny):
				require.NoError(t, s.ChoosePrize(p.Options[len(p.Options)-1]))
			case hasPending && p.Kind == PendingForced:
				require.NoError(t, s.AcceptForced())
			case hasPending && p.Kind == PendingSwap:
				require.NoError(t, s.SwapWith(p.Targets[0]))
			case hasPending:
				require.NoError(t, s.Continue())
			default:
				switch err := s.CanSpin(); err {
				case ErrMustSkip:
					require.NoError(t, s.SkipTurn())
				case ErrAlreadyAssigned:
					require.NoError(t, s.PassTurn())
				case nil:
					landing, err := s.Spin()
					require.NoError(t, err)
					assert.False(t, landing.Segment.IsSpecial() && !s.IsBurned(landing.Segment.ID))
					spins++
				default:
					t.Fatalf("seed %d: unexpected spin error %v", seed, err)
				}
			}

			for label := range burned {
				assert.True(t, s.burns.PrizeBurned(label), "seed %d: %s unburned", seed, label)
			}
			for _, label := range s.BurnedPrizes() {
				burned[label] = true
			}
			holders := map[string]string{}
			for player, prize := range s.Assignments() {
				assert.True(t, burned[prize])
				prev, dup := holders[prize]
				assert.False(t, dup, "seed %d: %s held by %s and %s", seed, prize, prev, player)
				holders[prize] = player
			}
			assert.ElementsMatch(t, players, s.Order())
			assert.LessOrEqual(t, s.RemainingPrizeCount(), remaining)
			remaining = s.RemainingPrizeCount()
			assert.GreaterOrEqual(t, s.Rotation(), rot)
			rot = s.Rotation()
		}
		assert.True(t, s.Finished(), "seed %d did not finish", seed)
		assert.LessOrEqual(t, spins, 10+len(specials))
	}
}
