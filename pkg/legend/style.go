package legend

// Style holds the numeric layout parameters of a legend. Start from
// [DefaultStyle] or [DefaultCompositionStyle] and override fields.
type Style struct {
	BoxPadding       float64 `json:"box_padding" toml:"box_padding"`
	TitleFontSize    float64 `json:"title_font_size" toml:"title_font_size"`
	TitleWidth       float64 `json:"title_width" toml:"title_width"`
	LabelFontSize    float64 `json:"label_font_size" toml:"label_font_size"`
	LabelOffset      float64 `json:"label_offset" toml:"label_offset"`
	LabelDecimals    int     `json:"label_decimals" toml:"label_decimals"`
	ShapeWidth       float64 `json:"shape_width" toml:"shape_width"`
	ShapeHeight      float64 `json:"shape_height" toml:"shape_height"`
	ShapePadding     float64 `json:"shape_padding" toml:"shape_padding"`
	ShapeSize        float64 `json:"shape_size" toml:"shape_size"`
	LegendSpacing    float64 `json:"legend_spacing" toml:"legend_spacing"`
	SizeTitlePadding float64 `json:"size_title_padding" toml:"size_title_padding"`
	NoDataText       string  `json:"no_data_text" toml:"no_data_text"`
	FallbackColor    string  `json:"fallback_color" toml:"fallback_color"`
}

// DefaultStyle returns the parameters used by ladder, matrix and size legends.
func DefaultStyle() Style {
	return Style{
		BoxPadding:       10,
		TitleFontSize:    17,
		TitleWidth:       140,
		LabelFontSize:    13,
		LabelOffset:      5,
		LabelDecimals:    2,
		ShapeWidth:       15,
		ShapeHeight:      13,
		ShapePadding:     2,
		ShapeSize:        20,
		LegendSpacing:    15,
		SizeTitlePadding: 15,
		NoDataText:       "No data",
		FallbackColor:    "#d3d3d3",
	}
}

// DefaultCompositionStyle returns the parameters used by pie chart and stripe
// legends: taller swatches spaced further apart and smaller titles.
func DefaultCompositionStyle() Style {
	s := DefaultStyle()
	s.TitleFontSize = 12
	s.LabelFontSize = 12
	s.ShapeWidth = 13
	s.ShapeHeight = 15
	s.ShapePadding = 5
	return s
}

// TextMeasurer estimates rendered text width.
type TextMeasurer interface {
	TextWidth(text string, fontSize float64) float64
}

// ApproxMeasurer estimates width as a fixed fraction of the font size per
// character, which is close enough for Helvetica-like fonts.
type ApproxMeasurer struct {
	CharWidth float64
}

const defaultCharWidth = 0.55

// TextWidth implements [TextMeasurer].
func (m ApproxMeasurer) TextWidth(text string, fontSize float64) float64 {
	cw := m.CharWidth
	if cw <= 0 {
		cw = defaultCharWidth
	}
	return float64(len([]rune(text))) * fontSize * cw
}
