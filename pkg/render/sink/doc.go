// Package sink writes legend geometry to output formats.
//
//   - SVG: [RenderSVG] draws every element of a [legend.Geometry]
//   - JSON: [RenderJSON] exports the geometry for external renderers
//   - PNG and PDF: [RenderPNG] and [RenderPDF] convert the SVG (requires rsvg-convert)
//
// [Render] dispatches on a format name and is what the pipeline calls:
//
//	data, err := sink.Render(ctx, sink.FormatSVG, geom, sink.WithBackground("#ffffff"))
package sink
