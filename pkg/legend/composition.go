package legend

// CompositionInput describes a pie chart or stripe legend.
type CompositionInput struct {
	// Size, when set, draws a size ladder above the category swatches.
	Size *SizeInput
	// Title is the title of the category block.
	Title string
	// Codes lists categories in declared order.
	Codes  []string
	Labels map[string]string
	Colors map[string]string
	NoData bool
	// NoDataColor fills the no-data swatch.
	NoDataColor string
}

// Composition lays out one swatch per category code followed by an optional
// no-data swatch. With a size block, the swatches start LegendSpacing below
// the size ladder baseline.
func (b *Builder) Composition(in CompositionInput) Geometry {
	st := b.style
	g := Geometry{Layout: LayoutComposition}

	offset, width := 0.0, 0.0
	if in.Size != nil {
		baseline, w := b.sizeBlock(&g, *in.Size)
		offset = baseline + st.LegendSpacing
		width = w
	}

	y0 := offset + st.BoxPadding + b.title(&g, in.Title, offset)
	labelX := st.BoxPadding + st.ShapeWidth + st.LabelOffset
	step := st.ShapeHeight + st.ShapePadding
	maxLabel := 0.0
	if in.NoData {
		maxLabel = b.labelWidth(st.NoDataText)
	}

	rows := 0
	for i, code := range in.Codes {
		y := y0 + float64(i)*step
		text := code
		if l, ok := in.Labels[code]; ok && l != "" {
			text = l
		}
		fill := in.Colors[code]
		if fill == "" {
			fill = st.FallbackColor
		}
		anchor := Point{X: labelX, Y: y + st.ShapeHeight/2}
		g.Elements = append(g.Elements, Element{
			Kind:   KindSwatch,
			Class:  i,
			Code:   code,
			Rect:   Rect{X: st.BoxPadding, Y: y, W: st.ShapeWidth, H: st.ShapeHeight},
			Anchor: anchor,
			Fill:   fill,
		})
		l := b.label(text, anchor)
		l.Code = code
		g.Elements = append(g.Elements, l)
		maxLabel = max(maxLabel, b.labelWidth(text))
		rows++
	}
	if in.NoData {
		y := y0 + float64(rows)*step
		g.Elements = append(g.Elements, b.noDataRow(y, st.ShapeWidth, st.ShapeHeight, in.NoDataColor)...)
		rows++
	}

	bottom := y0
	if rows > 0 {
		bottom = y0 + float64(rows-1)*step + st.ShapeHeight
	}
	g.Width = max(width, 2*st.BoxPadding+max(b.titleWidth(in.Title), st.ShapeWidth+st.LabelOffset+maxLabel))
	g.Height = bottom + st.BoxPadding
	return g
}
