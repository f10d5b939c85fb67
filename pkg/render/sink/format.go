package sink

import (
	"context"
	"strings"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
)

// Format names an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, json, png or pdf)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Render writes g in format f. SVG options apply to every image format.
func Render(ctx context.Context, f Format, g legend.Geometry, opts ...SVGOption) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(g, opts...), nil
	case FormatJSON:
		return RenderJSON(g)
	case FormatPNG:
		return RenderPNG(ctx, g, WithPNGSVGOptions(opts...))
	case FormatPDF:
		return RenderPDF(ctx, g, opts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}
