// Command sim plays whole games headlessly with a seeded wheel and prints
// every turn, which is handy for checking a wheel.yaml before a party.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"giftwheel/internal/config"
	"giftwheel/internal/logger"
	"giftwheel/internal/wheel"
)

const maxActions = 10_000

func main() {
	var (
		players = flag.String("players", "", "comma separated players (default from config)")
		prizes  = flag.String("prizes", "", "comma separated prizes (default from config)")
		seed    = flag.Uint64("seed", 1, "random seed")
		layout  = flag.String("layout", "", "segment layout: interleaved or appended")
		path    = flag.String("config", "wheel.yaml", "wheel config file")
		runs    = flag.Int("runs", 1, "number of games to play; above 1 only totals are printed")
	)
	flag.Parse()

	logger.Init(logger.NewConfig("warn", "text", "giftwheel-sim", "dev", "cli", false))

	wheelCfg, err := config.LoadWheel(*path)
	if err != nil {
		slog.Error("failed to load wheel config", "path", *path, "error", err)
		os.Exit(1)
	}
	cfg := wheel.Config{
		Players:    wheelCfg.Players,
		Prizes:     wheelCfg.Prizes,
		Specials:   wheelCfg.SpecialSlots(),
		Layout:     wheel.Layout(wheelCfg.Layout),
		ExtraSpins: wheelCfg.ExtraSpins,
	}
	if *players != "" {
		cfg.Players = strings.Split(*players, ",")
	}
	if *prizes != "" {
		cfg.Prizes = strings.Split(*prizes, ",")
	}
	if *layout != "" {
		cfg.Layout = wheel.Layout(*layout)
	}

	if *runs <= 1 {
		if _, err := play(os.Stdout, cfg, *seed); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var total stats
	for i := 0; i < *runs; i++ {
		s, err := play(io.Discard, cfg, *seed+uint64(i))
		if err != nil {
			slog.Error("simulation failed", "seed", *seed+uint64(i), "error", err)
			os.Exit(1)
		}
		total.add(s)
	}
	total.print(os.Stdout, *runs)
}

type stats struct {
	spins    int
	skipped  int
	specials int
	skips    int
	passes   int
}

func (s *stats) add(o stats) {
	s.spins += o.spins
	s.skipped += o.skipped
	s.specials += o.specials
	s.skips += o.skips
	s.passes += o.passes
}

func (s stats) print(w io.Writer, runs int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "games\t%d\n", runs)
	fmt.Fprintf(tw, "spins per game\t%.2f\n", float64(s.spins)/float64(runs))
	fmt.Fprintf(tw, "burned slots skipped per game\t%.2f\n", float64(s.skipped)/float64(runs))
	fmt.Fprintf(tw, "specials per game\t%.2f\n", float64(s.specials)/float64(runs))
	fmt.Fprintf(tw, "skipped turns per game\t%.2f\n", float64(s.skips)/float64(runs))
	fmt.Fprintf(tw, "passed turns per game\t%.2f\n", float64(s.passes)/float64(runs))
	_ = tw.Flush()
}

// play runs one game to the end, resolving every effect with the first
// option offered.
func play(w io.Writer, cfg wheel.Config, seed uint64) (stats, error) {
	var st stats
	state := wheel.New(cfg, wheel.WithRand(wheel.SeededRand(seed)))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tSEGMENT\tSKIPPED\tOUTCOME")

	turn, passesInRow := 0, 0
	for i := 0; i < maxActions && !state.Finished(); i++ {
		player := state.CurrentPlayer()
		switch err := state.CanSpin(); {
		case err == nil:
			plan, err := state.PlanSpin()
			if err != nil {
				return st, err
			}
			landing, err := state.Land()
			if err != nil {
				return st, err
			}
			turn++
			st.spins++
			st.skipped += len(plan.Result.Skipped)
			outcome := "prize " + landing.Assigned
			if landing.Pending != nil {
				st.specials++
				outcome = landing.Pending.Message
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", turn, player, landing.Segment.Label, len(plan.Result.Skipped), outcome)
		case errors.Is(err, wheel.ErrPendingEffect):
			note, err := resolve(state)
			if err != nil {
				return st, err
			}
			fmt.Fprintf(tw, "\t\t\t\t%s\n", note)
		case errors.Is(err, wheel.ErrMustSkip):
			if err := state.SkipTurn(); err != nil {
				return st, err
			}
			st.skips++
			fmt.Fprintf(tw, "\t%s\t\t\tskips this turn\n", player)
		case errors.Is(err, wheel.ErrAlreadyAssigned):
			if err := state.PassTurn(); err != nil {
				return st, err
			}
			st.passes++
			if passesInRow++; passesInRow >= len(state.Order()) {
				fmt.Fprintln(tw, "\t\t\t\tevery player holds a prize")
				i = maxActions
			}
			continue
		default:
			return st, err
		}
		passesInRow = 0
	}
	if err := tw.Flush(); err != nil {
		return st, err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tPRIZE")
	for _, p := range state.Players() {
		prize := p.Prize
		if prize == "" {
			prize = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, prize)
	}
	return st, tw.Flush()
}

// resolve settles the pending effect and describes the outcome.
func resolve(state *wheel.State) (string, error) {
	p, _ := state.PendingEffect()
	switch p.Kind {
	case wheel.PendingChoice, wheel.PendingPickAny:
		return "takes " + p.Options[0], state.ChoosePrize(p.Options[0])
	case wheel.PendingForced:
		return "takes " + p.Prize, state.AcceptForced()
	case wheel.PendingSwap:
		return "takes the prize of " + p.Targets[0], state.SwapWith(p.Targets[0])
	default:
		return "continues", state.Continue()
	}
}
