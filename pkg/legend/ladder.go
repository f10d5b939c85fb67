package legend

import (
	"math"
	"strconv"
)

// Classes is the classifier state a ladder legend needs.
type Classes interface {
	ClassCount() int
	InvertExtent(class int) [2]float64
}

// LadderInput describes a choropleth legend.
type LadderInput struct {
	Title   string
	Classes Classes
	// Colors holds one fill per class index.
	Colors []string
	// Descending puts the highest class on top. Class indexes are unchanged.
	Descending  bool
	NoData      bool
	NoDataColor string
}

// Ladder lays out one row per class. Separator lines mark each boundary and
// the boundary value is printed next to it: the upper bound of the row's
// class when ascending, the lower bound when descending.
func (b *Builder) Ladder(in LadderInput) Geometry {
	st := b.style
	g := Geometry{Layout: LayoutLadder}
	n := in.Classes.ClassCount()

	y0 := st.BoxPadding + b.title(&g, in.Title, 0)
	labelX := st.BoxPadding + st.ShapeWidth + st.LabelOffset
	maxLabel := 0.0

	for r := 0; r < n; r++ {
		class := r
		if in.Descending {
			class = n - 1 - r
		}
		y := y0 + float64(r)*st.ShapeHeight

		g.Elements = append(g.Elements, Element{
			Kind:   KindSwatch,
			Class:  class,
			Rect:   Rect{X: st.BoxPadding, Y: y, W: st.ShapeWidth, H: st.ShapeHeight},
			Anchor: Point{X: labelX, Y: y + st.ShapeHeight/2},
			Fill:   colorAt(in.Colors, class, st.FallbackColor),
		})
		if r > 0 {
			g.Elements = append(g.Elements, Element{
				Kind:   KindSeparator,
				Class:  class,
				Anchor: Point{X: st.BoxPadding, Y: y},
				To:     Point{X: st.BoxPadding + st.ShapeWidth, Y: y},
			})
		}
		if r < n-1 {
			ext := in.Classes.InvertExtent(class)
			v := ext[1]
			if in.Descending {
				v = ext[0]
			}
			text := b.FormatValue(v)
			l := b.label(text, Point{X: labelX, Y: y + st.ShapeHeight})
			l.Class = class
			l.Value = v
			g.Elements = append(g.Elements, l)
			maxLabel = max(maxLabel, b.labelWidth(text))
		}
	}

	height := y0 + float64(n)*st.ShapeHeight + st.BoxPadding
	if in.NoData {
		y := height
		g.Elements = append(g.Elements, b.noDataRow(y, st.ShapeWidth, st.ShapeHeight, in.NoDataColor)...)
		maxLabel = max(maxLabel, b.labelWidth(st.NoDataText))
		height = y + st.ShapeHeight + st.BoxPadding
	}

	g.Width = 2*st.BoxPadding + max(b.titleWidth(in.Title), st.ShapeWidth+st.LabelOffset+maxLabel)
	g.Height = height
	return g
}

func (b *Builder) noDataRow(y, w, h float64, fill string) []Element {
	st := b.style
	if fill == "" {
		fill = st.FallbackColor
	}
	anchor := Point{X: st.BoxPadding + w + st.LabelOffset, Y: y + h/2}
	return []Element{
		{Kind: KindNoData, Rect: Rect{X: st.BoxPadding, Y: y, W: w, H: h}, Anchor: anchor, Fill: fill},
		b.label(st.NoDataText, anchor),
	}
}

// FormatValue prints a boundary value with the style's fixed decimals. NaN
// prints as an empty string.
func (b *Builder) FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', b.style.LabelDecimals, 64)
}

func colorAt(colors []string, i int, fallback string) string {
	if i >= 0 && i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return fallback
}
