package wheel

import "math"

// DefaultExtraSpins is how many full turns the wheel makes before a spin settles.
const DefaultExtraSpins = 5

// TargetAngle returns the rotation, in degrees, that puts the centre of
// segment index under a pointer at the top of a clockwise-drawn wheel.
func TargetAngle(index, n, extraFullSpins int) float64 {
	base := 0.0
	if n > 0 {
		slice := 360.0 / float64(n)
		base = normalize(360 - (float64(index)+0.5)*slice)
	}
	return float64(extraFullSpins)*360 + base
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Rotation accumulates the wheel angle. It only ever grows.
type Rotation struct {
	total float64
}

// Degrees returns the accumulated angle.
func (r *Rotation) Degrees() float64 {
	return r.total
}

// Advance turns the wheel forward onto index after extraFullSpins full
// turns and returns the new accumulated angle.
func (r *Rotation) Advance(index, n, extraFullSpins int) float64 {
	delta := TargetAngle(index, n, 0) - normalize(r.total)
	if delta < -1e-9 {
		delta += 360
	}
	if delta < 0 {
		delta = 0
	}
	r.total += float64(extraFullSpins)*360 + delta
	return r.total
}

func (r *Rotation) Reset() {
	r.total = 0
}
