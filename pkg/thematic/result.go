package thematic

import (
	"github.com/matzehuels/statmap/pkg/bivariate"
	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/compose"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Region is the styling of one region. Which fields are set depends on the
// map type; NoData regions carry only the no-data color.
type Region struct {
	ID     string     `json:"id"`
	NoData bool       `json:"no_data"`
	Value  stat.Value `json:"value"`
	Status string     `json:"status,omitempty"`
	Color  string     `json:"color,omitempty"`

	Class       *int                 `json:"class,omitempty"`
	Cell        *bivariate.Cell      `json:"cell,omitempty"`
	Size        *float64             `json:"size,omitempty"`
	Composition *compose.Composition `json:"composition,omitempty"`
	Slices      []compose.Slice      `json:"slices,omitempty"`
	Stripes     []compose.Stripe     `json:"stripes,omitempty"`
}

// Result is a classified map.
type Result struct {
	MapType MapType  `json:"map_type"`
	Regions []Region `json:"regions"`
	NoData  int      `json:"no_data"`

	// Classification is set for choropleth maps, Axes for bivariate maps.
	Classification *classify.Classification  `json:"classification,omitempty"`
	Axes           []classify.Classification `json:"axes,omitempty"`
	Counts         []int                     `json:"counts,omitempty"`
	Colors         []string                  `json:"colors,omitempty"`
	Matrix         [][]string                `json:"matrix,omitempty"`
	SizeDomain     *[2]float64               `json:"size_domain,omitempty"`
	Categories     []string                  `json:"categories,omitempty"`
	CategoryColors map[string]string         `json:"category_colors,omitempty"`
	Legend         legend.Geometry           `json:"legend"`
}

// Region returns the result of one region.
func (r *Result) Region(id string) (Region, bool) {
	for _, reg := range r.Regions {
		if reg.ID == id {
			return reg, true
		}
	}
	return Region{}, false
}

func (r *Result) countNoData() {
	r.NoData = 0
	for _, reg := range r.Regions {
		if reg.NoData {
			r.NoData++
		}
	}
}

func ptr[T any](v T) *T { return &v }
