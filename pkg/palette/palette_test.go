package palette

import (
	"image/color"
	"testing"

	"github.com/matzehuels/statmap/pkg/errors"
)

func TestSequential(t *testing.T) {
	for _, n := range []int{1, 3, 7, 12} {
		colors, err := Sequential("", n)
		if err != nil {
			t.Fatalf("Sequential(%d): %v", n, err)
		}
		if len(colors) != n {
			t.Errorf("len = %d, want %d", len(colors), n)
		}
		for i, c := range colors {
			if err := Validate(c); err != nil {
				t.Errorf("color %d = %q: %v", i, c, err)
			}
		}
	}
}

func TestSequentialDistinctEnds(t *testing.T) {
	colors, err := Sequential("Blues", 5)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	if colors[0] == colors[4] {
		t.Errorf("first and last colors are equal: %s", colors[0])
	}
}

func TestUnknownScheme(t *testing.T) {
	if _, err := Sequential("NoSuchScheme", 3); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("Sequential() error = %v, want %s", err, errors.ErrCodeInvalidColor)
	}
}

func TestFromArray(t *testing.T) {
	got, err := FromArray([]string{"#FF0000", "#00ff00", "#0000ff"}, 2)
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	if got[0] != "#ff0000" || got[1] != "#00ff00" || len(got) != 2 {
		t.Errorf("FromArray = %v", got)
	}

	if _, err := FromArray([]string{"#ff0000"}, 3); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("short array error = %v", err)
	}
	if _, err := FromArray([]string{"red"}, 1); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("invalid color error = %v", err)
	}
}

func TestClassesPrefersArray(t *testing.T) {
	got, err := Classes("Blues", []string{"#000000", "#ffffff"}, 2)
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if got[0] != "#000000" || got[1] != "#ffffff" {
		t.Errorf("Classes = %v", got)
	}
}

func TestCategories(t *testing.T) {
	got, err := Categories([]string{"A", "B", "C"}, map[string]string{"B": "#123456"})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if got["A"] != Category10[0] || got["B"] != "#123456" || got["C"] != Category10[2] {
		t.Errorf("Categories = %v", got)
	}
	if _, err := Categories([]string{"A"}, map[string]string{"A": "nope"}); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("invalid explicit color error = %v", err)
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{R: 0x2a, G: 0x5a, B: 0x5b, A: 0xff}); got != "#2a5a5b" {
		t.Errorf("Hex = %s, want #2a5a5b", got)
	}
}
