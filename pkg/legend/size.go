package legend

import (
	"math"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// Scale is the size scale a size ladder needs.
type Scale interface {
	Size(v float64) float64
	Domain() (lo, hi float64, ok bool)
}

// SizeInput describes a proportional-symbol legend.
type SizeInput struct {
	Title string
	Scale Scale
	// Values to illustrate. When nil, floor(max), floor(max/2) and
	// floor(max/10) of the scale domain are used.
	Values []float64
}

// DefaultSizeValues returns the illustrated values for a domain maximum.
// Non-positive and repeated values are dropped.
func DefaultSizeValues(domainMax float64) []float64 {
	var out []float64
	for _, d := range []float64{1, 2, 10} {
		v := math.Floor(domainMax / d)
		if v > 0 && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// SizeLadder lays out stacked circles sharing a bottom baseline, largest
// first, each with a leader line from its top to its value label.
func (b *Builder) SizeLadder(in SizeInput) Geometry {
	g := Geometry{Layout: LayoutSize}
	bottom, width := b.sizeBlock(&g, in)
	g.Width = width
	g.Height = bottom + b.style.BoxPadding
	return g
}

// sizeBlock appends the size ladder elements and returns the baseline y and
// the block width.
func (b *Builder) sizeBlock(g *Geometry, in SizeInput) (baseline, width float64) {
	st := b.style
	values := in.Values
	if values == nil {
		if _, hi, ok := in.Scale.Domain(); ok {
			values = DefaultSizeValues(hi)
		}
	}
	values = slices.Clone(values)
	slices.SortFunc(values, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	top := 0.0
	if in.Title != "" {
		top = b.title(g, in.Title, 0) + st.SizeTitlePadding
	}
	maxSize := 0.0
	if len(values) > 0 {
		maxSize = in.Scale.Size(values[0])
	}
	baseline = st.BoxPadding + top + 2*maxSize
	cx := st.BoxPadding + maxSize
	lineEnd := cx + maxSize + st.LabelOffset
	labelX := lineEnd + st.LabelOffset

	maxLabel := 0.0
	for _, v := range values {
		r := in.Scale.Size(v)
		g.Elements = append(g.Elements, Element{
			Kind:   KindCircle,
			Anchor: Point{X: cx, Y: baseline - r},
			Radius: r,
			Value:  v,
		})
		yTop := baseline - 2*r
		g.Elements = append(g.Elements, Element{
			Kind:   KindLeader,
			Anchor: Point{X: cx, Y: yTop},
			To:     Point{X: lineEnd, Y: yTop},
			Value:  v,
		})
		text := FormatCount(v)
		l := b.label(text, Point{X: labelX, Y: yTop})
		l.Value = v
		g.Elements = append(g.Elements, l)
		maxLabel = max(maxLabel, b.labelWidth(text))
	}

	width = max(2*st.BoxPadding+b.titleWidth(in.Title), labelX+maxLabel+st.BoxPadding)
	return baseline, width
}

// FormatCount prints a value with spaces as thousands separators, for example
// "1 234 567" or "12 500.5".
func FormatCount(v float64) string {
	return strings.ReplaceAll(humanize.Commaf(v), ",", " ")
}
