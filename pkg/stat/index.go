package stat

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Stat is a value together with its optional status flag (for example "p" for
// provisional or "e" for estimated). The status never affects classification.
type Stat struct {
	Value  Value  `json:"value"`
	Status string `json:"status,omitempty"`
}

// Index maps region identifiers to statistical values for one dataset.
// Iteration order is insertion order.
type Index struct {
	ids   []string
	stats map[string]Stat
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{stats: make(map[string]Stat)}
}

// FromValues builds an index from raw values, coercing each through [Parse].
// Region order follows the sorted keys so that results are reproducible.
func FromValues(values map[string]any) *Index {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ix := NewIndex()
	for _, id := range ids {
		ix.SetValue(id, Parse(values[id]))
	}
	return ix
}

// Set replaces the whole value/status pair for a region.
func (ix *Index) Set(id string, s Stat) {
	if _, ok := ix.stats[id]; !ok {
		ix.ids = append(ix.ids, id)
	}
	ix.stats[id] = s
}

// SetValue overwrites only the value of a region, preserving any existing
// status.
func (ix *Index) SetValue(id string, v Value) {
	s, ok := ix.stats[id]
	if !ok {
		ix.ids = append(ix.ids, id)
	}
	s.Value = v
	ix.stats[id] = s
}

// Get returns the pair stored for a region.
func (ix *Index) Get(id string) (Stat, bool) {
	if ix == nil {
		return Stat{}, false
	}
	s, ok := ix.stats[id]
	return s, ok
}

// Value returns the value of a region, or [Missing] if the region is absent.
func (ix *Index) Value(id string) Value {
	s, _ := ix.Get(id)
	return s.Value
}

// Len returns the number of regions in the index, including those without data.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.ids)
}

// IDs returns region identifiers in insertion order.
func (ix *Index) IDs() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.ids...)
}

// Array returns every defined numeric value in insertion order. Missing values
// and categories are excluded. The result is the domain input for classifiers.
func (ix *Index) Array() []float64 {
	if ix == nil {
		return nil
	}
	out := make([]float64, 0, len(ix.ids))
	for _, id := range ix.ids {
		if f, ok := ix.stats[id].Value.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Min returns the smallest numeric value. ok is false when the index holds no
// numeric values.
func (ix *Index) Min() (float64, bool) {
	xs := ix.Array()
	if len(xs) == 0 {
		return 0, false
	}
	lo, _ := stats.Bounds(xs)
	return lo, true
}

// Max returns the largest numeric value. ok is false when the index holds no
// numeric values.
func (ix *Index) Max() (float64, bool) {
	xs := ix.Array()
	if len(xs) == 0 {
		return 0, false
	}
	_, hi := stats.Bounds(xs)
	return hi, true
}

// Summary describes the numeric domain of an index.
type Summary struct {
	Regions  int            `json:"regions"`
	Numeric  int            `json:"numeric"`
	Missing  int            `json:"missing"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Mean     float64        `json:"mean"`
	StdDev   float64        `json:"std_dev"`
	Median   float64        `json:"median"`
	Statuses map[string]int `json:"statuses,omitempty"`
}

// Summarize computes descriptive statistics over the numeric values. Statistics
// of an empty domain are NaN.
func (ix *Index) Summarize() Summary {
	xs := ix.Array()
	s := Summary{Regions: ix.Len(), Numeric: len(xs)}
	for _, id := range ix.IDs() {
		st := ix.stats[id]
		if st.Value.IsMissing() {
			s.Missing++
		}
		if st.Status != "" {
			if s.Statuses == nil {
				s.Statuses = make(map[string]int)
			}
			s.Statuses[st.Status]++
		}
	}
	if len(xs) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev, s.Median = nan, nan, nan, nan, nan
		return s
	}
	s.Min, s.Max = stats.Bounds(xs)
	s.Mean = stats.Mean(xs)
	if len(xs) > 1 {
		s.StdDev = stats.StdDev(xs)
	}
	s.Median = stats.Sample{Xs: xs}.Quantile(0.5)
	return s
}
