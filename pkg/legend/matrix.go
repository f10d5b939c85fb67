package legend

// MatrixInput describes a bivariate legend.
type MatrixInput struct {
	Title string
	// Colors is the n1×n2 class color matrix, indexed [class1][class2].
	Colors [][]string
	// Descending1 puts the highest first-variable class on the left.
	Descending1 bool
	// Descending2 puts the highest second-variable class at the bottom.
	Descending2 bool
	NoData      bool
	NoDataColor string
}

// Matrix lays out a grid of ShapeSize cells: first-variable classes along x,
// second-variable classes along y, ascending rightwards and upwards by
// default. A frame surrounds the grid and an optional no-data swatch sits
// below it.
func (b *Builder) Matrix(in MatrixInput) Geometry {
	st := b.style
	g := Geometry{Layout: LayoutMatrix}
	n1 := len(in.Colors)
	n2 := 0
	if n1 > 0 {
		n2 = len(in.Colors[0])
	}
	size := st.ShapeSize

	y0 := st.BoxPadding + b.title(&g, in.Title, 0)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			c1, c2 := n1-1-i, n2-1-j
			if in.Descending1 {
				c1 = i
			}
			if in.Descending2 {
				c2 = j
			}
			x := st.BoxPadding + float64(n1-1-i)*size
			y := y0 + float64(j)*size
			g.Elements = append(g.Elements, Element{
				Kind:   KindSwatch,
				Row:    c1,
				Col:    c2,
				Rect:   Rect{X: x, Y: y, W: size, H: size},
				Anchor: Point{X: x + size/2, Y: y + size/2},
				Fill:   in.Colors[c1][c2],
			})
		}
	}
	g.Elements = append(g.Elements, Element{
		Kind: KindFrame,
		Rect: Rect{X: st.BoxPadding, Y: y0, W: float64(n1) * size, H: float64(n2) * size},
	})

	width := float64(n1) * size
	height := y0 + float64(n2)*size + st.BoxPadding
	if in.NoData {
		y := height
		g.Elements = append(g.Elements, b.noDataRow(y, size, size, in.NoDataColor)...)
		width = max(width, size+st.LabelOffset+b.labelWidth(st.NoDataText))
		height = y + size + st.BoxPadding
	}

	g.Width = 2*st.BoxPadding + max(b.titleWidth(in.Title), width)
	g.Height = height
	return g
}
