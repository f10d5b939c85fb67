// Package render converts rendered SVG documents to PNG and PDF.
//
// Legends are drawn as SVG by [sink]; raster and print formats are produced
// by piping that SVG through the external rsvg-convert tool (librsvg):
//
//	svg := sink.RenderSVG(geometry)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [Available] reports whether the converter is installed so callers can
// reject png/pdf output before doing any work.
//
// [sink]: github.com/matzehuels/statmap/pkg/render/sink
package render
