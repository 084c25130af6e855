package wheel

import "math/rand/v2"

// RandFunc returns a uniform integer in [0, n). Injected so tests can script
// outcomes.
type RandFunc func(n int) int

// DefaultRand draws from the process-wide generator.
func DefaultRand() RandFunc {
	return rand.IntN
}

// SeededRand returns a deterministic generator for replays and simulations.
func SeededRand(seed uint64) RandFunc {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).IntN
}

// SpinResult is the outcome of one spin: where the pointer started, the
// burned segments stepped over, and where it stopped.
type SpinResult struct {
	Start   int   `json:"start"`
	Final   int   `json:"final"`
	Skipped []int `json:"skipped"`
}

// Path returns the indices the pointer visits, start first and final last,
// without consecutive repeats.
func (r SpinResult) Path(n int) []int {
	path := []int{r.Start}
	for _, idx := range r.Skipped {
		next := (idx + 1) % n
		if path[len(path)-1] != next {
			path = append(path, next)
		}
	}
	return path
}

// Resolve walks forward from start until it finds an unburned segment.
func Resolve(ring Ring, burns BurnChecker, start int) (SpinResult, error) {
	n := len(ring)
	if n == 0 {
		return SpinResult{}, ErrAllSegmentsBurned
	}
	idx := ((start % n) + n) % n
	res := SpinResult{Start: idx}
	for steps := 0; steps <= n+2; steps++ {
		if !burns.IsBurned(ring[idx]) {
			res.Final = idx
			return res, nil
		}
		res.Skipped = append(res.Skipped, idx)
		idx = (idx + 1) % n
	}
	return SpinResult{}, ErrAllSegmentsBurned
}

// Resolver picks uniformly random start segments.
type Resolver struct {
	rng RandFunc
}

func NewResolver(rng RandFunc) *Resolver {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Resolver{rng: rng}
}

// Spin samples a start index over every slot, burned or not, then resolves.
func (r *Resolver) Spin(ring Ring, burns BurnChecker) (SpinResult, error) {
	if len(ring) == 0 {
		return SpinResult{}, ErrAllSegmentsBurned
	}
	return Resolve(ring, burns, r.rng(len(ring)))
}
