package classify

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// SizeScale maps values to symbol sizes so that symbol area grows linearly
// with the value:
//
//	size = minSize + (maxSize-minSize) * sqrt((v-lo)/(hi-lo))
//
// Values at or below lo map to minSize. A degenerate domain (lo == hi) maps
// every value to maxSize and an empty domain maps every value to minSize.
// Values above hi are not clamped.
type SizeScale struct {
	lo, hi   float64
	min, max float64
	empty    bool
}

// NewSizeScale builds a scale over the bounds of domain. NaN values are ignored.
func NewSizeScale(domain []float64, sizeRange [2]float64) (*SizeScale, error) {
	xs := make([]float64, 0, len(domain))
	for _, x := range domain {
		if !math.IsNaN(x) {
			xs = append(xs, x)
		}
	}
	if len(xs) == 0 {
		return NewSizeScaleExtent(math.NaN(), math.NaN(), sizeRange)
	}
	lo, hi := stats.Bounds(xs)
	return NewSizeScaleExtent(lo, hi, sizeRange)
}

// NewSizeScaleExtent builds a scale over an explicit [lo, hi] domain. A NaN
// bound yields an empty scale.
func NewSizeScaleExtent(lo, hi float64, sizeRange [2]float64) (*SizeScale, error) {
	if err := ValidateSizeRange(sizeRange); err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, errors.New(errors.ErrCodeInvalidInput, "size domain is inverted: [%v, %v]", lo, hi)
	}
	return &SizeScale{
		lo:    lo,
		hi:    hi,
		min:   sizeRange[0],
		max:   sizeRange[1],
		empty: math.IsNaN(lo) || math.IsNaN(hi),
	}, nil
}

// ValidateSizeRange reports a size range that is negative, NaN or inverted.
func ValidateSizeRange(r [2]float64) error {
	if math.IsNaN(r[0]) || math.IsNaN(r[1]) || r[0] < 0 || r[0] > r[1] {
		return errors.New(errors.ErrCodeInvalidSizeRange, "invalid size range [%v, %v]", r[0], r[1])
	}
	return nil
}

// Size returns the symbol size for v. NaN maps to the minimum size.
func (s *SizeScale) Size(v float64) float64 {
	switch {
	case s.empty || math.IsNaN(v):
		return s.min
	case s.lo == s.hi:
		return s.max
	case v <= s.lo:
		return s.min
	}
	return s.min + (s.max-s.min)*math.Sqrt((v-s.lo)/(s.hi-s.lo))
}

// SizeValue sizes a statistical value. ok is false for missing and
// categorical values.
func (s *SizeScale) SizeValue(v stat.Value) (float64, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return s.Size(f), true
}

// Domain returns the domain bounds. ok is false for an empty scale.
func (s *SizeScale) Domain() (lo, hi float64, ok bool) {
	return s.lo, s.hi, !s.empty
}

// Range returns the configured [minSize, maxSize].
func (s *SizeScale) Range() [2]float64 {
	return [2]float64{s.min, s.max}
}
