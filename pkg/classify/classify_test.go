package classify

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

func oneToTen() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func mustBuild(t *testing.T, domain []float64, cfg Config) *Classifier {
	t.Helper()
	c, err := Build(domain, cfg)
	if err != nil {
		t.Fatalf("Build(%v) error: %v", cfg, err)
	}
	return c
}

func TestQuantileBoundaries(t *testing.T) {
	c := mustBuild(t, oneToTen(), Config{Method: Quantile, ClassCount: 5})

	if diff := cmp.Diff([]float64{2, 4, 6, 8}, c.Boundaries()); diff != "" {
		t.Errorf("Boundaries() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		v    float64
		want int
	}{
		{1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2}, {6, 2}, {7, 3}, {8, 3}, {9, 4}, {10, 4},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestQuantileIgnoresInsertionOrder(t *testing.T) {
	a := mustBuild(t, []float64{5, 1, 9, 3, 7, 3, 2}, Config{Method: Quantile, ClassCount: 3})
	b := mustBuild(t, []float64{3, 3, 1, 2, 9, 7, 5}, Config{Method: Quantile, ClassCount: 3})
	if diff := cmp.Diff(a.Boundaries(), b.Boundaries()); diff != "" {
		t.Errorf("boundaries depend on order (-a +b):\n%s", diff)
	}
}

func TestQuantileBalancedClasses(t *testing.T) {
	for n := 1; n <= 40; n++ {
		domain := make([]float64, n)
		for i := range domain {
			domain[i] = float64(i * 3)
		}
		for k := 1; k <= 9; k++ {
			c := mustBuild(t, domain, Config{Method: Quantile, ClassCount: k})
			if got := len(c.Boundaries()); got != k-1 {
				t.Fatalf("n=%d k=%d: len(boundaries) = %d, want %d", n, k, got, k-1)
			}
			if n < k {
				continue
			}
			counts := c.Counts(domain)
			lo, hi := counts[0], counts[0]
			for _, x := range counts {
				lo, hi = min(lo, x), max(hi, x)
			}
			if hi-lo > 1 {
				t.Errorf("n=%d k=%d: class sizes %v differ by more than 1", n, k, counts)
			}
		}
	}
}

func TestEqualInterval(t *testing.T) {
	c := mustBuild(t, []float64{0, 10, 100, 55}, Config{Method: EqualInterval, ClassCount: 4})

	if diff := cmp.Diff([]float64{25, 50, 75}, c.Boundaries()); diff != "" {
		t.Errorf("Boundaries() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		v    float64
		want int
	}{
		{0, 0}, {24.9, 0}, {25, 1}, {50, 2}, {74, 2}, {75, 3}, {100, 3}, {150, 3}, {-5, 0},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestEqualIntervalNice(t *testing.T) {
	c := mustBuild(t, []float64{0, 97}, Config{Method: EqualInterval, ClassCount: 4, Nice: true})
	if diff := cmp.Diff([]float64{20, 40, 80}, c.Boundaries()); diff != "" {
		t.Errorf("Boundaries() mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualIntervalNiceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 500; iter++ {
		lo := rng.NormFloat64() * math.Pow(10, float64(rng.Intn(6)-2))
		hi := lo + rng.Float64()*math.Pow(10, float64(rng.Intn(6)-2))
		k := 1 + rng.Intn(9)
		if hi == lo {
			continue
		}
		c := mustBuild(t, []float64{lo, hi}, Config{Method: EqualInterval, ClassCount: k, Nice: true})
		b := c.Boundaries()
		if len(b) != k-1 {
			t.Fatalf("[%v,%v] k=%d: len = %d, want %d", lo, hi, k, len(b), k-1)
		}
		prev := lo
		for i, x := range b {
			if x <= prev || x >= hi {
				t.Fatalf("[%v,%v] k=%d: boundary %d = %v out of order in %v", lo, hi, k, i, x, b)
			}
			prev = x
		}
	}
}

func TestThreshold(t *testing.T) {
	c := mustBuild(t, oneToTen(), Config{Method: Threshold, Thresholds: []float64{50, 75, 100}})

	if c.ClassCount() != 4 {
		t.Errorf("ClassCount() = %d, want 4", c.ClassCount())
	}
	tests := []struct {
		v    float64
		want int
	}{
		{49, 0}, {50, 1}, {74.99, 1}, {75, 2}, {100, 2}, {100.01, 3}, {1000, 3},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestThresholdIgnoresClassCount(t *testing.T) {
	c := mustBuild(t, nil, Config{Method: Threshold, ClassCount: 9, Thresholds: []float64{1}})
	if c.ClassCount() != 2 {
		t.Errorf("ClassCount() = %d, want 2", c.ClassCount())
	}
	if got := c.Classify(5); got != 1 {
		t.Errorf("Classify(5) = %d, want 1", got)
	}
}

func TestMisconfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"zero classes", Config{Method: Quantile, ClassCount: 0}, errors.ErrCodeInvalidClassCount},
		{"negative classes", Config{Method: EqualInterval, ClassCount: -2}, errors.ErrCodeInvalidClassCount},
		{"unknown method", Config{Method: "jenks", ClassCount: 5}, errors.ErrCodeInvalidMethod},
		{"no thresholds", Config{Method: Threshold}, errors.ErrCodeInvalidThresholds},
		{"descending thresholds", Config{Method: Threshold, Thresholds: []float64{5, 3}}, errors.ErrCodeInvalidThresholds},
		{"duplicate thresholds", Config{Method: Threshold, Thresholds: []float64{3, 3}}, errors.ErrCodeInvalidThresholds},
		{"nan threshold", Config{Method: Threshold, Thresholds: []float64{1, math.NaN()}}, errors.ErrCodeInvalidThresholds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(oneToTen(), tt.cfg)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEmptyDomain(t *testing.T) {
	for _, m := range []Method{Quantile, EqualInterval} {
		t.Run(string(m), func(t *testing.T) {
			c := mustBuild(t, nil, Config{Method: m, ClassCount: 5})
			if c.ClassCount() != 1 {
				t.Errorf("ClassCount() = %d, want 1", c.ClassCount())
			}
			for _, v := range []float64{-1, 0, 1e9} {
				if got := c.Classify(v); got != 0 {
					t.Errorf("Classify(%v) = %d, want 0", v, got)
				}
			}
			ext := c.InvertExtent(0)
			if !math.IsNaN(ext[0]) || !math.IsNaN(ext[1]) {
				t.Errorf("InvertExtent(0) = %v, want NaN bounds", ext)
			}
			if !c.Classification().Empty {
				t.Error("Classification().Empty = false")
			}
		})
	}
}

func TestDegenerateDomain(t *testing.T) {
	for _, m := range []Method{Quantile, EqualInterval} {
		c := mustBuild(t, []float64{4, 4, 4}, Config{Method: m, ClassCount: 3, Nice: true})
		if got := c.Classify(4); got != 0 {
			t.Errorf("%s: Classify(4) = %d, want 0", m, got)
		}
		if got := len(c.Boundaries()); got != 2 {
			t.Errorf("%s: len(boundaries) = %d, want 2", m, got)
		}
	}
}

func TestSingleClass(t *testing.T) {
	c := mustBuild(t, oneToTen(), Config{Method: Quantile, ClassCount: 1})
	if got := c.Classify(10); got != 0 {
		t.Errorf("Classify(10) = %d, want 0", got)
	}
	if diff := cmp.Diff([2]float64{1, 10}, c.InvertExtent(0)); diff != "" {
		t.Errorf("InvertExtent(0) mismatch (-want +got):\n%s", diff)
	}
}

func TestInvertExtentEnds(t *testing.T) {
	c := mustBuild(t, oneToTen(), Config{Method: Quantile, ClassCount: 5})
	if got := c.InvertExtent(0); got != [2]float64{1, 2} {
		t.Errorf("InvertExtent(0) = %v, want [1 2]", got)
	}
	if got := c.InvertExtent(4); got != [2]float64{8, 10} {
		t.Errorf("InvertExtent(4) = %v, want [8 10]", got)
	}
	if got := c.InvertExtent(99); got != [2]float64{8, 10} {
		t.Errorf("InvertExtent(99) = %v, want clamped [8 10]", got)
	}
}

func TestInvertExtentThresholdsOutsideDomain(t *testing.T) {
	c := mustBuild(t, []float64{1, 2, 3}, Config{Method: Threshold, Thresholds: []float64{50, 75, 100}})
	tests := []struct {
		class int
		want  [2]float64
	}{
		{0, [2]float64{1, 50}},
		{1, [2]float64{50, 75}},
		{2, [2]float64{75, 100}},
		{3, [2]float64{100, 100}},
	}
	for _, tt := range tests {
		got := c.InvertExtent(tt.class)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("InvertExtent(%d) mismatch (-want +got):\n%s", tt.class, diff)
		}
		if got[0] > got[1] {
			t.Errorf("InvertExtent(%d) = %v, lower above upper", tt.class, got)
		}
	}

	below := mustBuild(t, []float64{200, 300}, Config{Method: Threshold, Thresholds: []float64{50, 75}})
	if got := below.InvertExtent(0); got != [2]float64{50, 50} {
		t.Errorf("InvertExtent(0) = %v, want [50 50]", got)
	}
	if got := below.InvertExtent(2); got != [2]float64{75, 300} {
		t.Errorf("InvertExtent(2) = %v, want [75 300]", got)
	}
}

func TestMonotonicAndContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	configs := []Config{
		{Method: Quantile, ClassCount: 5},
		{Method: EqualInterval, ClassCount: 6},
		{Method: EqualInterval, ClassCount: 6, Nice: true},
		{Method: Threshold, Thresholds: []float64{-1, 0, 0.5, 2}},
	}
	for iter := 0; iter < 50; iter++ {
		domain := make([]float64, 1+rng.Intn(60))
		for i := range domain {
			domain[i] = math.Round(rng.NormFloat64()*100) / 100
		}
		sorted := append([]float64(nil), domain...)
		sort.Float64s(sorted)

		for _, cfg := range configs {
			c := mustBuild(t, domain, cfg)
			prev := -1
			for _, v := range sorted {
				got := c.Classify(v)
				if got < prev {
					t.Fatalf("%v: Classify not monotonic at %v", cfg, v)
				}
				prev = got
				ext := c.InvertExtent(got)
				if v < ext[0] || v > ext[1] {
					t.Fatalf("%v: %v not within InvertExtent(%d) = %v", cfg, v, got, ext)
				}
			}
		}
	}
}

func TestClassifyValue(t *testing.T) {
	c := mustBuild(t, oneToTen(), Config{Method: Quantile, ClassCount: 5})
	if _, ok := c.ClassifyValue(stat.Missing); ok {
		t.Error("ClassifyValue(Missing) ok = true")
	}
	if _, ok := c.ClassifyValue(stat.Category("x")); ok {
		t.Error("ClassifyValue(Category) ok = true")
	}
	if got, ok := c.ClassifyValue(stat.Number(0)); !ok || got != 0 {
		t.Errorf("ClassifyValue(0) = %d, %v, want 0, true", got, ok)
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"":               Quantile,
		"Quantile":       Quantile,
		"equinter":       EqualInterval,
		"equal-interval": EqualInterval,
		"threshold":      Threshold,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseMethod("natural-breaks"); !errors.Is(err, errors.ErrCodeInvalidMethod) {
		t.Errorf("ParseMethod(natural-breaks) error = %v", err)
	}
}
