package legend

// Layout names a legend layout.
type Layout string

const (
	LayoutLadder      Layout = "ladder"
	LayoutMatrix      Layout = "matrix"
	LayoutSize        Layout = "size"
	LayoutComposition Layout = "composition"
)

// Kind names the role of an element.
type Kind string

const (
	KindTitle     Kind = "title"
	KindSwatch    Kind = "swatch"
	KindSeparator Kind = "separator"
	KindLabel     Kind = "label"
	KindFrame     Kind = "frame"
	KindNoData    Kind = "no-data"
	KindCircle    Kind = "circle"
	KindLeader    Kind = "leader"
)

// Point is a position in legend coordinates (origin top-left, y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Element is one positioned legend item.
//
// Swatches carry Rect, Fill and the anchor where their label starts. Labels
// and titles carry Anchor, Label and FontSize: labels are vertically centered
// on their anchor, titles use it as baseline. Lines (separators, leaders) run
// from Anchor to To. Circles are centered on Anchor.
type Element struct {
	Kind     Kind    `json:"kind"`
	Class    int     `json:"class,omitempty"`
	Row      int     `json:"row,omitempty"`
	Col      int     `json:"col,omitempty"`
	Code     string  `json:"code,omitempty"`
	Rect     Rect    `json:"rect"`
	Anchor   Point   `json:"anchor"`
	To       Point   `json:"to"`
	Label    string  `json:"label,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Value    float64 `json:"value,omitempty"`
}

// Geometry is a complete legend layout.
type Geometry struct {
	Layout   Layout    `json:"layout"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
}

// Filter returns the elements of the given kind, in layout order.
func (g Geometry) Filter(kind Kind) []Element {
	var out []Element
	for _, e := range g.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Builder computes legend geometry for one style.
type Builder struct {
	style    Style
	measurer TextMeasurer
}

// Option configures a [Builder].
type Option func(*Builder)

// WithMeasurer sets the text measurer. The default is [ApproxMeasurer].
func WithMeasurer(m TextMeasurer) Option { return func(b *Builder) { b.measurer = m } }

// New returns a builder.
func New(style Style, opts ...Option) *Builder {
	b := &Builder{style: style, measurer: ApproxMeasurer{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Style returns the builder style.
func (b *Builder) Style() Style { return b.style }

func (b *Builder) labelWidth(s string) float64 {
	return b.measurer.TextWidth(s, b.style.LabelFontSize)
}

func (b *Builder) titleWidth(s string) float64 {
	if s == "" {
		return 0
	}
	return b.measurer.TextWidth(s, b.style.TitleFontSize)
}

// title appends the title element for a block starting at top and returns
// the vertical space it takes below the block padding, including the gap
// after it. The title anchor is the text baseline.
func (b *Builder) title(g *Geometry, text string, top float64) float64 {
	if text == "" {
		return 0
	}
	st := b.style
	g.Elements = append(g.Elements, Element{
		Kind:     KindTitle,
		Anchor:   Point{X: st.BoxPadding, Y: top + st.BoxPadding + st.TitleFontSize},
		Label:    text,
		FontSize: st.TitleFontSize,
	})
	return st.TitleFontSize + st.BoxPadding
}

func (b *Builder) label(text string, at Point) Element {
	return Element{Kind: KindLabel, Anchor: at, Label: text, FontSize: b.style.LabelFontSize}
}
