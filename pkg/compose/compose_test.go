package compose

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// collection builds one index per category from region → value rows.
func collection(rows map[string]map[string]any) *stat.Collection {
	c := stat.NewCollection()
	byCode := map[string]map[string]any{}
	for region, vals := range rows {
		for code, v := range vals {
			if byCode[code] == nil {
				byCode[code] = map[string]any{}
			}
			byCode[code][region] = v
		}
	}
	for code, vals := range byCode {
		c.Put(code, stat.FromValues(vals))
	}
	return c
}

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestCompositionZeroIsValid(t *testing.T) {
	src := collection(map[string]map[string]any{
		"R1": {"A": 30, "B": 0, "C": 70},
	})
	e, err := New([]string{"A", "B", "C"}, src, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	comp, ok := e.Composition("R1")
	if !ok {
		t.Fatal("Composition(R1) ok = false")
	}
	want := map[string]float64{"A": 0.3, "B": 0, "C": 0.7}
	if diff := cmp.Diff(want, comp.Shares, approx); diff != "" {
		t.Errorf("Shares mismatch (-want +got):\n%s", diff)
	}
	if !comp.Complete || comp.Total != 100 {
		t.Errorf("Complete/Total = %v/%v, want true/100", comp.Complete, comp.Total)
	}
}

func TestCompositionZeroAsMissing(t *testing.T) {
	src := collection(map[string]map[string]any{
		"R1": {"A": 30, "B": 0, "C": 70},
	})
	e, _ := New([]string{"A", "B", "C"}, src, Options{ZeroAsMissing: true})

	comp, ok := e.Composition("R1")
	if !ok {
		t.Fatal("Composition(R1) ok = false")
	}
	want := map[string]float64{"A": 0.3, "C": 0.7}
	if diff := cmp.Diff(want, comp.Shares, approx); diff != "" {
		t.Errorf("Shares mismatch (-want +got):\n%s", diff)
	}
	if _, ok := comp.Share("B"); ok {
		t.Error("B should be absent from shares")
	}
	if comp.Complete {
		t.Error("Complete = true, want false")
	}
}

func TestCompositionMissingCategory(t *testing.T) {
	src := collection(map[string]map[string]any{
		"R1": {"A": 1, "C": 3},
		"R2": {"A": 2, "B": 2, "C": 4},
	})

	t.Run("require complete", func(t *testing.T) {
		e, _ := New([]string{"A", "B", "C"}, src, Options{RequireComplete: true})
		if _, ok := e.Composition("R1"); ok {
			t.Error("Composition(R1) ok = true, want false")
		}
		if _, ok := e.TotalMagnitude("R1"); ok {
			t.Error("TotalMagnitude(R1) ok = true, want false")
		}
		if _, ok := e.Composition("R2"); !ok {
			t.Error("Composition(R2) ok = false, want true")
		}
	})

	t.Run("partial", func(t *testing.T) {
		e, _ := New([]string{"A", "B", "C"}, src, Options{})
		comp, ok := e.Composition("R1")
		if !ok {
			t.Fatal("Composition(R1) ok = false")
		}
		if diff := cmp.Diff([]string{"A", "C"}, comp.Codes); diff != "" {
			t.Errorf("Codes mismatch (-want +got):\n%s", diff)
		}
		sum := 0.0
		for _, s := range comp.Shares {
			sum += s
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("sum(shares) = %v, want 1", sum)
		}
	})
}

func TestCompositionNoData(t *testing.T) {
	src := collection(map[string]map[string]any{
		"zeros":    {"A": 0, "B": 0},
		"negative": {"A": -5, "B": 0},
		"category": {"A": "n/a", "B": nil},
	})
	e, _ := New([]string{"A", "B"}, src, Options{})
	for _, region := range []string{"zeros", "negative", "category", "absent"} {
		if _, ok := e.Composition(region); ok {
			t.Errorf("Composition(%s) ok = true, want false", region)
		}
	}
}

func TestCompositionOverflow(t *testing.T) {
	src := collection(map[string]map[string]any{
		"huge": {"A": math.MaxFloat64, "B": math.MaxFloat64},
		"fine": {"A": 1, "B": 3},
	})
	e, _ := New([]string{"A", "B"}, src, Options{})
	if c, ok := e.Composition("huge"); ok {
		t.Errorf("Composition(huge) = %+v, want no-data", c)
	}
	if tot, ok := e.TotalMagnitude("huge"); ok {
		t.Errorf("TotalMagnitude(huge) = %v, want no-data", tot)
	}
	if diff := cmp.Diff([]float64{4}, e.Magnitudes([]string{"huge", "fine"})); diff != "" {
		t.Errorf("Magnitudes mismatch (-want +got):\n%s", diff)
	}
}

func TestSharesSumToOne(t *testing.T) {
	src := collection(map[string]map[string]any{
		"R1": {"A": 0.1, "B": 0.2, "C": 0.7, "D": 1e-9},
		"R2": {"A": 1e6, "B": 3, "C": 17, "D": 123.456},
	})
	e, _ := New([]string{"A", "B", "C", "D"}, src, Options{RequireComplete: true})
	for _, r := range []string{"R1", "R2"} {
		comp, ok := e.Composition(r)
		if !ok {
			t.Fatalf("Composition(%s) ok = false", r)
		}
		sum := 0.0
		for _, s := range comp.Shares {
			sum += s
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s: sum(shares) = %v, want 1", r, sum)
		}
	}
}

func TestNewInvalidCodes(t *testing.T) {
	for _, codes := range [][]string{nil, {"A", "A"}, {""}} {
		if _, err := New(codes, stat.NewCollection(), Options{}); !errors.Is(err, errors.ErrCodeInvalidCategories) {
			t.Errorf("New(%v) error = %v, want %s", codes, err, errors.ErrCodeInvalidCategories)
		}
	}
}

func TestSizeScale(t *testing.T) {
	src := collection(map[string]map[string]any{
		"small": {"A": 5, "B": 5},
		"large": {"A": 50, "B": 50},
		"none":  {"A": 0, "B": 0},
	})
	e, _ := New([]string{"A", "B"}, src, Options{})
	regions := []string{"small", "large", "none"}

	if diff := cmp.Diff([]float64{10, 100}, e.Magnitudes(regions)); diff != "" {
		t.Errorf("Magnitudes mismatch (-want +got):\n%s", diff)
	}
	s, err := e.SizeScale(regions, [2]float64{5, 15})
	if err != nil {
		t.Fatalf("SizeScale: %v", err)
	}
	if got := s.Size(10); got != 5 {
		t.Errorf("Size(10) = %v, want 5", got)
	}
	if got := s.Size(100); got != 15 {
		t.Errorf("Size(100) = %v, want 15", got)
	}
}

func TestPie(t *testing.T) {
	comp := Composition{
		Codes:  []string{"A", "B", "C"},
		Shares: map[string]float64{"A": 0.25, "B": 0, "C": 0.75},
	}
	want := []Slice{
		{Code: "A", Share: 0.25, StartAngle: 0, EndAngle: math.Pi / 2},
		{Code: "B", Share: 0, StartAngle: math.Pi / 2, EndAngle: math.Pi / 2},
		{Code: "C", Share: 0.75, StartAngle: math.Pi / 2, EndAngle: 2 * math.Pi},
	}
	if diff := cmp.Diff(want, Pie(comp), approx); diff != "" {
		t.Errorf("Pie mismatch (-want +got):\n%s", diff)
	}
}

func TestStripes(t *testing.T) {
	comp := Composition{
		Codes:  []string{"A", "C"},
		Shares: map[string]float64{"A": 0.3, "C": 0.7},
	}
	want := []Stripe{
		{Code: "A", Offset: 0, Width: 3},
		{Code: "C", Offset: 3, Width: 7},
	}
	if diff := cmp.Diff(want, Stripes(comp, 10), approx); diff != "" {
		t.Errorf("Stripes mismatch (-want +got):\n%s", diff)
	}
}
