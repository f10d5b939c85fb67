package classify

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/matzehuels/statmap/pkg/stat"
)

// Classification is the serializable description of a built classifier.
// For quantile and equal-interval, len(Boundaries) == ClassCount-1. For
// threshold, Boundaries are the thresholds and ClassCount is len+1.
type Classification struct {
	Method     Method    `json:"method"`
	ClassCount int       `json:"class_count"`
	Boundaries []float64 `json:"boundaries"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Empty      bool      `json:"empty,omitempty"`
}

// Classifier maps values to class indexes.
type Classifier struct {
	cls         Classification
	lo, hi      float64
	rightClosed bool
	degenerate  bool
}

// Build constructs a classifier from a domain. The domain need not be sorted
// and may contain NaN values, which are ignored.
func Build(domain []float64, cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	method, _ := ParseMethod(string(cfg.Method))

	xs := make([]float64, 0, len(domain))
	for _, x := range domain {
		if !math.IsNaN(x) {
			xs = append(xs, x)
		}
	}

	c := &Classifier{
		cls: Classification{Method: method},
		lo:  math.NaN(),
		hi:  math.NaN(),
	}
	if len(xs) > 0 {
		c.lo, c.hi = stats.Bounds(xs)
		c.cls.Min, c.cls.Max = c.lo, c.hi
		c.degenerate = c.lo == c.hi
	} else {
		c.cls.Empty = true
	}

	switch method {
	case Threshold:
		c.cls.Boundaries = append([]float64(nil), cfg.Thresholds...)
		c.cls.ClassCount = len(cfg.Thresholds) + 1
		c.degenerate = false
		return c, nil
	case Quantile:
		c.rightClosed = true
	}

	if c.cls.Empty {
		c.cls.ClassCount = 1
		c.cls.Boundaries = []float64{}
		return c, nil
	}

	k := cfg.ClassCount
	c.cls.ClassCount = k
	switch method {
	case Quantile:
		sort.Float64s(xs)
		c.cls.Boundaries = quantileBoundaries(xs, k)
	case EqualInterval:
		c.cls.Boundaries = equalIntervalBoundaries(c.lo, c.hi, k)
		if cfg.Nice && !c.degenerate {
			c.cls.Boundaries = niceBoundaries(c.cls.Boundaries, c.lo, c.hi, k)
		}
	}
	return c, nil
}

// quantileBoundaries returns the nearest-rank boundaries of a sorted sample.
// Boundary i is the ceil(i*n/k)-th smallest value.
func quantileBoundaries(sorted []float64, k int) []float64 {
	n := len(sorted)
	out := make([]float64, k-1)
	for i := 1; i < k; i++ {
		rank := int(math.Ceil(float64(i*n)/float64(k))) - 1
		if rank < 0 {
			rank = 0
		}
		out[i-1] = sorted[rank]
	}
	return out
}

func equalIntervalBoundaries(lo, hi float64, k int) []float64 {
	if k <= 1 {
		return []float64{}
	}
	pts := vec.Linspace(lo, hi, k+1)
	return append([]float64{}, pts[1:k]...)
}

// Classify returns the class index of v. NaN maps to class 0.
func (c *Classifier) Classify(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if c.cls.Method != Threshold && (c.cls.Empty || c.degenerate) {
		return 0
	}
	b := c.cls.Boundaries
	if c.rightClosed {
		// Number of boundaries strictly below v.
		return sort.SearchFloat64s(b, v)
	}
	// Number of boundaries at or below v.
	class := sort.Search(len(b), func(i int) bool { return b[i] > v })
	if c.cls.Method == Threshold && class == len(b) && v == b[len(b)-1] {
		// The last threshold closes the last bounded class.
		class--
	}
	return class
}

// ClassifyValue classifies a statistical value. ok is false for missing and
// categorical values.
func (c *Classifier) ClassifyValue(v stat.Value) (int, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return c.Classify(f), true
}

// InvertExtent returns the value range covered by a class. The lowest class
// starts at the domain minimum and the highest ends at the domain maximum;
// those ends are NaN for an empty domain. When boundaries lie outside the
// domain, as fixed thresholds may, the open ends extend to the nearest
// boundary so that lower <= upper. Out-of-range classes are clamped.
func (c *Classifier) InvertExtent(class int) [2]float64 {
	last := c.cls.ClassCount - 1
	class = max(0, min(class, last))
	b := c.cls.Boundaries
	var ext [2]float64
	switch {
	case class > 0:
		ext[0] = b[class-1]
	case len(b) > 0:
		ext[0] = min(c.lo, b[0])
	default:
		ext[0] = c.lo
	}
	switch {
	case class < last:
		ext[1] = b[class]
	case len(b) > 0:
		ext[1] = max(c.hi, b[len(b)-1])
	default:
		ext[1] = c.hi
	}
	return ext
}

// ClassCount returns the number of classes.
func (c *Classifier) ClassCount() int { return c.cls.ClassCount }

// Method returns the classification method.
func (c *Classifier) Method() Method { return c.cls.Method }

// Boundaries returns a copy of the class boundaries.
func (c *Classifier) Boundaries() []float64 {
	return append([]float64(nil), c.cls.Boundaries...)
}

// Classification returns a serializable copy of the classifier state.
func (c *Classifier) Classification() Classification {
	cls := c.cls
	cls.Boundaries = c.Boundaries()
	if cls.Boundaries == nil {
		cls.Boundaries = []float64{}
	}
	return cls
}

// Counts returns the number of domain values in each class.
func (c *Classifier) Counts(domain []float64) []int {
	counts := make([]int, c.cls.ClassCount)
	for _, x := range domain {
		if !math.IsNaN(x) {
			counts[c.Classify(x)]++
		}
	}
	return counts
}
