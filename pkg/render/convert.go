package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/matzehuels/statmap/pkg/errors"
)

const converter = "rsvg-convert"

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, stderr.String())
	}
	return out.Bytes(), nil
}
