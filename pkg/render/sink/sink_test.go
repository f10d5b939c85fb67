package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
)

func testGeometry() legend.Geometry {
	return legend.Geometry{
		Layout: legend.LayoutLadder,
		Width:  120.5,
		Height: 80,
		Elements: []legend.Element{
			{Kind: legend.KindTitle, Anchor: legend.Point{X: 10, Y: 27}, Label: "Density <km²>", FontSize: 17},
			{Kind: legend.KindSwatch, Class: 1, Rect: legend.Rect{X: 10, Y: 37, W: 15, H: 13}, Fill: "#fee391"},
			{Kind: legend.KindSeparator, Anchor: legend.Point{X: 10, Y: 50}, To: legend.Point{X: 25, Y: 50}},
			{Kind: legend.KindLabel, Anchor: legend.Point{X: 30, Y: 50}, Label: "1.5", FontSize: 13},
			{Kind: legend.KindNoData, Rect: legend.Rect{X: 10, Y: 60, W: 15, H: 13}, Fill: "#a9a9a9"},
			{Kind: legend.KindFrame, Rect: legend.Rect{X: 10, Y: 37, W: 15, H: 13}},
			{Kind: legend.KindCircle, Anchor: legend.Point{X: 50, Y: 50}, Radius: 7.333},
			{Kind: legend.KindLeader, Anchor: legend.Point{X: 50, Y: 43}, To: legend.Point{X: 70, Y: 43}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testGeometry(), WithBackground("#ffffff")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.5 80" width="120.5" height="80" class="legend legend-ladder">`,
		`class="legend-background"`,
		`font-weight="bold">Density &lt;km²&gt;</text>`,
		`<rect class="legend-swatch" data-class="1" x="10" y="37" width="15" height="13" fill="#fee391"`,
		`<line class="legend-separator" x1="10" y1="50" x2="25" y2="50"`,
		`dominant-baseline="middle">1.5</text>`,
		`<rect class="legend-no-data" x="10" y="60"`,
		`class="legend-frame"`,
		`<circle class="legend-circle" cx="50" cy="50" r="7.33" fill="none"`,
		`<line class="legend-leader"`,
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testGeometry(), WithSVGScale(2), WithFontFamily("Fira Sans"), WithStroke("#333333")))

	if !strings.Contains(svg, `width="241" height="160"`) {
		t.Errorf("scale not applied:\n%s", svg)
	}
	if !strings.Contains(svg, `font-family="Fira Sans"`) {
		t.Error("font family not applied")
	}
	if !strings.Contains(svg, `stroke="#333333"`) {
		t.Error("stroke not applied")
	}
	if strings.Contains(svg, "legend-background") {
		t.Error("background drawn without WithBackground")
	}
}

func TestRenderSVGMatrixCells(t *testing.T) {
	g := legend.Geometry{Layout: legend.LayoutMatrix, Elements: []legend.Element{
		{Kind: legend.KindSwatch, Row: 1, Col: 2, Fill: "#000000"},
		{Kind: legend.KindSwatch, Code: "ET", Fill: "#111111"},
	}}
	svg := string(RenderSVG(g))
	if !strings.Contains(svg, `data-row="1" data-col="2"`) {
		t.Errorf("matrix cell attributes missing:\n%s", svg)
	}
	if !strings.Contains(svg, `data-code="ET"`) {
		t.Errorf("category code attribute missing:\n%s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	g := testGeometry()
	data, err := RenderJSON(g, WithJSONMapType("choropleth"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.MapType != "choropleth" {
		t.Errorf("MapType = %q, want choropleth", out.MapType)
	}
	if diff := cmp.Diff(g, out.Geometry); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(legend.Geometry{}, WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"elements":[]`) {
		t.Errorf("empty geometry = %s, want elements array", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"json", FormatJSON, false},
		{"pdf", FormatPDF, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatSVG.Ext() != ".svg" {
		t.Errorf("Ext = %q", FormatSVG.Ext())
	}
	if FormatSVG.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType = %q", FormatSVG.ContentType())
	}
	if Format("x").ContentType() != "application/octet-stream" {
		t.Error("unknown format should be octet-stream")
	}
}

func TestRenderDispatch(t *testing.T) {
	ctx := context.Background()
	g := testGeometry()

	svg, err := Render(ctx, FormatSVG, g)
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Error("Render(svg) did not produce SVG")
	}

	js, err := Render(ctx, FormatJSON, g)
	if err != nil {
		t.Fatalf("Render(json) error: %v", err)
	}
	if !json.Valid(js) {
		t.Error("Render(json) produced invalid JSON")
	}

	if _, err := Render(ctx, Format("gif"), g); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
