package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/statmap/pkg/legend"
)

const defaultFontFamily = "Helvetica, Arial, sans-serif"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	fontFamily string
	stroke     string
	opacity    float64
	scale      float64
}

// WithBackground fills the legend box. Empty leaves it transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithBackgroundOpacity sets the opacity of the background fill.
func WithBackgroundOpacity(o float64) SVGOption {
	return func(r *svgRenderer) { r.opacity = o }
}

// WithFontFamily sets the CSS font family of titles and labels.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// WithStroke sets the color of separators, leaders, circles and frames.
func WithStroke(color string) SVGOption { return func(r *svgRenderer) { r.stroke = color } }

// WithSVGScale sets the ratio of the width/height attributes to the viewBox.
func WithSVGScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{fontFamily: defaultFontFamily, stroke: "#000000", opacity: 0.7, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}

// RenderSVG draws g as a standalone SVG document.
func RenderSVG(g legend.Geometry, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" class="legend legend-%s">`+"\n",
		num(g.Width), num(g.Height), num(g.Width*r.scale), num(g.Height*r.scale), g.Layout)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="legend-background" x="0" y="0" width="%s" height="%s" fill="%s" fill-opacity="%s"/>`+"\n",
			num(g.Width), num(g.Height), escape(r.background), num(r.opacity))
	}
	fmt.Fprintf(&buf, `  <g font-family="%s">`+"\n", escape(r.fontFamily))
	for _, e := range g.Elements {
		r.element(&buf, e)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) element(buf *bytes.Buffer, e legend.Element) {
	switch e.Kind {
	case legend.KindTitle:
		fmt.Fprintf(buf, `    <text class="legend-title" x="%s" y="%s" font-size="%s" font-weight="bold">%s</text>`+"\n",
			num(e.Anchor.X), num(e.Anchor.Y), num(e.FontSize), escape(e.Label))
	case legend.KindLabel:
		fmt.Fprintf(buf, `    <text class="legend-label" x="%s" y="%s" font-size="%s" dominant-baseline="middle">%s</text>`+"\n",
			num(e.Anchor.X), num(e.Anchor.Y), num(e.FontSize), escape(e.Label))
	case legend.KindSwatch, legend.KindNoData:
		fmt.Fprintf(buf, `    <rect class="legend-%s"%s x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="none"/>`+"\n",
			e.Kind, dataAttrs(e), num(e.Rect.X), num(e.Rect.Y), num(e.Rect.W), num(e.Rect.H), escape(e.Fill))
	case legend.KindFrame:
		fmt.Fprintf(buf, `    <rect class="legend-frame" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="0.5"/>`+"\n",
			num(e.Rect.X), num(e.Rect.Y), num(e.Rect.W), num(e.Rect.H), escape(r.stroke))
	case legend.KindSeparator, legend.KindLeader:
		fmt.Fprintf(buf, `    <line class="legend-%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			e.Kind, num(e.Anchor.X), num(e.Anchor.Y), num(e.To.X), num(e.To.Y), escape(r.stroke))
	case legend.KindCircle:
		fill := e.Fill
		if fill == "" {
			fill = "none"
		}
		fmt.Fprintf(buf, `    <circle class="legend-circle" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(e.Anchor.X), num(e.Anchor.Y), num(e.Radius), escape(fill), escape(r.stroke))
	}
}

func dataAttrs(e legend.Element) string {
	switch {
	case e.Kind == legend.KindNoData:
		return ""
	case e.Code != "":
		return fmt.Sprintf(` data-code="%s"`, escape(e.Code))
	case e.Row != 0 || e.Col != 0:
		return fmt.Sprintf(` data-row="%d" data-col="%d"`, e.Row, e.Col)
	default:
		return fmt.Sprintf(` data-class="%d"`, e.Class)
	}
}

// num prints coordinates with at most two decimals and no trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(round2(f), 'f', -1, 64)
}

func round2(f float64) float64 {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
