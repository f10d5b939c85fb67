package classify

import (
	"math"
	"strconv"
)

// niceIncrement returns the largest 1, 2 or 5 × 10^p that does not exceed step.
func niceIncrement(step float64) (inc float64, decimals int) {
	p := math.Floor(math.Log10(step))
	base := math.Pow(10, p)
	for _, m := range []float64{5, 2, 1} {
		if m*base <= step {
			inc = m * base
			break
		}
	}
	if inc == 0 {
		inc = base
	}
	return inc, max(0, int(-p))
}

// niceBoundaries rounds equal-interval boundaries to a human-friendly increment.
// A boundary keeps its unrounded value whenever the rounded one would not be
// strictly above its predecessor (or the domain minimum) and strictly below
// the domain maximum, so the class count and boundary order never change.
func niceBoundaries(bounds []float64, lo, hi float64, k int) []float64 {
	step := (hi - lo) / float64(k)
	if !(step > 0) || math.IsInf(step, 0) {
		return bounds
	}
	inc, dec := niceIncrement(step)
	out := make([]float64, len(bounds))
	prev := lo
	for i, b := range bounds {
		r := math.Round(b/inc) * inc
		if s, err := strconv.ParseFloat(strconv.FormatFloat(r, 'f', dec, 64), 64); err == nil {
			r = s
		}
		if r <= prev || r >= hi {
			r = b
		}
		out[i] = r
		prev = r
	}
	return out
}
