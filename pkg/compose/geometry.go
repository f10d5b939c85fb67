package compose

import "math"

// Slice is one pie sector. Angles are in radians, clockwise from 12 o'clock.
type Slice struct {
	Code       string  `json:"code"`
	Share      float64 `json:"share"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// Pie lays out slices in declared category order over a full turn.
func Pie(c Composition) []Slice {
	out := make([]Slice, 0, len(c.Codes))
	angle := 0.0
	for i, code := range c.Codes {
		s := c.Shares[code]
		end := angle + s*2*math.Pi
		if i == len(c.Codes)-1 {
			end = 2 * math.Pi
		}
		out = append(out, Slice{Code: code, Share: s, StartAngle: angle, EndAngle: end})
		angle = end
	}
	return out
}

// Stripe is one band of a repeating stripe pattern tile.
type Stripe struct {
	Code   string  `json:"code"`
	Offset float64 `json:"offset"`
	Width  float64 `json:"width"`
}

// Stripes splits a pattern tile of the given width proportionally to the
// shares, in declared category order.
func Stripes(c Composition, tile float64) []Stripe {
	out := make([]Stripe, 0, len(c.Codes))
	offset := 0.0
	for _, code := range c.Codes {
		w := c.Shares[code] * tile
		out = append(out, Stripe{Code: code, Offset: offset, Width: w})
		offset += w
	}
	return out
}
