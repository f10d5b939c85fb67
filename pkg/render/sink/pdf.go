package sink

import (
	"context"

	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/render"
)

// RenderPDF renders the legend as PDF via SVG conversion.
func RenderPDF(ctx context.Context, g legend.Geometry, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(g, opts...))
}
