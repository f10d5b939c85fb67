package sink

import (
	"encoding/json"

	"github.com/matzehuels/statmap/pkg/legend"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	mapType string
	compact bool
}

// WithJSONMapType records the map type the legend belongs to.
func WithJSONMapType(t string) JSONOption { return func(r *jsonRenderer) { r.mapType = t } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	MapType string `json:"map_type,omitempty"`
	legend.Geometry
}

// RenderJSON exports legend geometry for external renderers.
func RenderJSON(g legend.Geometry, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if g.Elements == nil {
		g.Elements = []legend.Element{}
	}
	out := jsonOutput{MapType: r.mapType, Geometry: g}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
