// Package bivariate classifies regions on two variables at once.
//
// Each axis has its own [classify.Classifier]; the pair of class indexes
// selects a cell of an n1×n2 color matrix. The matrix is a smooth
// two-dimensional ramp: for each row i, a start→color1 ramp and a color2→end
// ramp are sampled at i/(n1-1), and the row is the ramp between those two
// endpoints sampled at j/(n2-1).
package bivariate

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Ramp holds the four anchor colors of the matrix as hex strings.
type Ramp struct {
	Start  string `json:"start" toml:"start"`
	Color1 string `json:"color1" toml:"color1"`
	Color2 string `json:"color2" toml:"color2"`
	End    string `json:"end" toml:"end"`
}

// DefaultRamp is the Stevens green-blue scheme.
var DefaultRamp = Ramp{
	Start:  "#e8e8e8",
	Color1: "#73ae80",
	Color2: "#6c83b5",
	End:    "#2a5a5b",
}

// RampFromSlice builds a ramp from [start, color1, color2, end].
func RampFromSlice(colors []string) (Ramp, error) {
	if len(colors) != 4 {
		return Ramp{}, errors.New(errors.ErrCodeInvalidColor, "color ramp needs 4 colors, got %d", len(colors))
	}
	return Ramp{Start: colors[0], Color1: colors[1], Color2: colors[2], End: colors[3]}, nil
}

// DefaultClassCount is the per-axis class count when a config leaves it unset.
const DefaultClassCount = 5

// Config configures both axes and the color ramp. A zero Config classifies
// both axes by quantile with [DefaultClassCount] classes and uses [DefaultRamp].
type Config struct {
	Axis1 classify.Config `json:"axis1" toml:"axis1"`
	Axis2 classify.Config `json:"axis2" toml:"axis2"`
	Ramp  Ramp            `json:"ramp" toml:"ramp"`
}

func (c Config) withDefaults() Config {
	for _, ax := range []*classify.Config{&c.Axis1, &c.Axis2} {
		if ax.Method == "" {
			ax.Method = classify.Quantile
		}
		if ax.ClassCount == 0 && ax.Method != classify.Threshold {
			ax.ClassCount = DefaultClassCount
		}
	}
	if c.Ramp == (Ramp{}) {
		c.Ramp = DefaultRamp
	}
	return c
}

// Cell is a position in the class matrix: Row is the class on the first
// variable and Col the class on the second.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Classifier is an immutable two-variable classifier.
type Classifier struct {
	c1, c2 *classify.Classifier
	matrix [][]string
}

// New builds both axis classifiers and the color matrix.
func New(domain1, domain2 []float64, cfg Config) (*Classifier, error) {
	cfg = cfg.withDefaults()
	c1, err := classify.Build(domain1, cfg.Axis1)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "first variable")
	}
	c2, err := classify.Build(domain2, cfg.Axis2)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "second variable")
	}
	m, err := Matrix(c1.ClassCount(), c2.ClassCount(), cfg.Ramp)
	if err != nil {
		return nil, err
	}
	return &Classifier{c1: c1, c2: c2, matrix: m}, nil
}

// Matrix computes the n1×n2 color matrix for a ramp.
func Matrix(n1, n2 int, r Ramp) ([][]string, error) {
	start, err := parseColor("start", r.Start)
	if err != nil {
		return nil, err
	}
	color1, err := parseColor("color1", r.Color1)
	if err != nil {
		return nil, err
	}
	color2, err := parseColor("color2", r.Color2)
	if err != nil {
		return nil, err
	}
	end, err := parseColor("end", r.End)
	if err != nil {
		return nil, err
	}

	m := make([][]string, n1)
	for i := range m {
		t := fraction(i, n1)
		left := start.BlendRgb(color1, t)
		right := color2.BlendRgb(end, t)
		row := make([]string, n2)
		for j := range row {
			row[j] = left.BlendRgb(right, fraction(j, n2)).Clamped().Hex()
		}
		m[i] = row
	}
	return m, nil
}

func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func parseColor(name, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "%s color %q", name, hex)
	}
	return c, nil
}

// Classify returns the matrix cell for a pair of values. ok is false when
// either value is missing or categorical.
func (b *Classifier) Classify(v1, v2 stat.Value) (Cell, bool) {
	i, ok := b.c1.ClassifyValue(v1)
	if !ok {
		return Cell{}, false
	}
	j, ok := b.c2.ClassifyValue(v2)
	if !ok {
		return Cell{}, false
	}
	return Cell{Row: i, Col: j}, true
}

// Color returns the matrix color for a pair of values. ok is false when the
// pair cannot be classified; callers substitute a no-data style.
func (b *Classifier) Color(v1, v2 stat.Value) (string, bool) {
	cell, ok := b.Classify(v1, v2)
	if !ok {
		return "", false
	}
	return b.ColorAt(cell), true
}

// ColorAt returns the color of a cell.
func (b *Classifier) ColorAt(c Cell) string {
	return b.matrix[c.Row][c.Col]
}

// Matrix returns a copy of the color matrix.
func (b *Classifier) Matrix() [][]string {
	out := make([][]string, len(b.matrix))
	for i, row := range b.matrix {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Axis1 returns the classifier of the first variable.
func (b *Classifier) Axis1() *classify.Classifier { return b.c1 }

// Axis2 returns the classifier of the second variable.
func (b *Classifier) Axis2() *classify.Classifier { return b.c2 }
