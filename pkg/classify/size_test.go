package classify

import (
	"math"
	"testing"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

func TestSizeScale(t *testing.T) {
	s, err := NewSizeScale([]float64{0, 100, 50}, [2]float64{1, 30})
	if err != nil {
		t.Fatalf("NewSizeScale: %v", err)
	}
	tests := []struct {
		v, want float64
	}{
		{0, 1}, {100, 30}, {25, 15.5}, {-10, 1}, {400, 59},
	}
	for _, tt := range tests {
		if got := s.Size(tt.v); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Size(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSizeScaleDegenerate(t *testing.T) {
	s, err := NewSizeScale([]float64{7, 7}, [2]float64{2, 20})
	if err != nil {
		t.Fatalf("NewSizeScale: %v", err)
	}
	for _, v := range []float64{0, 7, 100} {
		if got := s.Size(v); got != 20 {
			t.Errorf("Size(%v) = %v, want 20", v, got)
		}
	}
}

func TestSizeScaleEmpty(t *testing.T) {
	s, err := NewSizeScale(nil, [2]float64{2, 20})
	if err != nil {
		t.Fatalf("NewSizeScale: %v", err)
	}
	if got := s.Size(50); got != 2 {
		t.Errorf("Size(50) = %v, want 2", got)
	}
	if _, _, ok := s.Domain(); ok {
		t.Error("Domain() ok = true for empty scale")
	}
}

func TestSizeScaleValue(t *testing.T) {
	s, _ := NewSizeScaleExtent(0, 4, [2]float64{0, 10})
	if _, ok := s.SizeValue(stat.Missing); ok {
		t.Error("SizeValue(Missing) ok = true")
	}
	if got, ok := s.SizeValue(stat.Number(1)); !ok || got != 5 {
		t.Errorf("SizeValue(1) = %v, %v, want 5, true", got, ok)
	}
}

func TestSizeScaleInvalidRange(t *testing.T) {
	for _, r := range [][2]float64{{10, 1}, {-1, 5}, {math.NaN(), 3}} {
		if _, err := NewSizeScale([]float64{1, 2}, r); !errors.Is(err, errors.ErrCodeInvalidSizeRange) {
			t.Errorf("NewSizeScale(range %v) error = %v, want %s", r, err, errors.ErrCodeInvalidSizeRange)
		}
	}
}
