// Package palette produces class and category colors as hex strings.
//
// Sequential class colors are sampled from a ColorBrewer scheme through an
// RGB gradient, so any class count can be served from a scheme's largest
// variant. Caller-supplied color arrays are validated and used verbatim.
package palette

import (
	"image/color"
	"sort"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/statmap/pkg/errors"
)

// DefaultScheme is the sequential scheme used when none is configured.
const DefaultScheme = "YlOrBr"

// Category10 is the default categorical palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Gradient returns the continuous palette of a ColorBrewer scheme, built from
// its largest variant.
func Gradient(scheme string) (palette.RGBGradient, error) {
	variants, ok := brewer.ByName[scheme]
	if !ok || len(variants) == 0 {
		return palette.RGBGradient{}, errors.New(errors.ErrCodeInvalidColor, "unknown color scheme %q", scheme)
	}
	levels := make([]int, 0, len(variants))
	for n := range variants {
		levels = append(levels, n)
	}
	sort.Ints(levels)

	var stops []color.RGBA
	for _, c := range variants[levels[len(levels)-1]] {
		stops = append(stops, toRGBA(c))
	}
	return palette.RGBGradient{Colors: stops}, nil
}

// Sequential returns n colors sampled evenly from a scheme, lightest first.
func Sequential(scheme string, n int) ([]string, error) {
	if scheme == "" {
		scheme = DefaultScheme
	}
	g, err := Gradient(scheme)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = Hex(g.Map(t))
	}
	return out, nil
}

// FromArray validates a caller-supplied color list and returns it normalized
// to lowercase hex. It must provide at least n colors.
func FromArray(colors []string, n int) ([]string, error) {
	if len(colors) < n {
		return nil, errors.New(errors.ErrCodeInvalidColor, "color array has %d colors, need %d", len(colors), n)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		c, err := colorful.Hex(colors[i])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "color %d (%q)", i, colors[i])
		}
		out[i] = c.Hex()
	}
	return out, nil
}

// Classes resolves class colors: an explicit array wins over a scheme.
func Classes(scheme string, array []string, n int) ([]string, error) {
	if len(array) > 0 {
		return FromArray(array, n)
	}
	return Sequential(scheme, n)
}

// Categories assigns colors to category codes. Explicit colors win; the rest
// cycle through [Category10] by declared position.
func Categories(codes []string, explicit map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(codes))
	for i, code := range codes {
		if c, ok := explicit[code]; ok && c != "" {
			if err := Validate(c); err != nil {
				return nil, err
			}
			out[code] = c
			continue
		}
		out[code] = Category10[i%len(Category10)]
	}
	return out, nil
}

// Validate reports whether s is a hex color.
func Validate(s string) error {
	if _, err := colorful.Hex(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return nil
}

// Hex formats any color as #rrggbb.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
