package thematic

import (
	"slices"
	"strings"

	"github.com/matzehuels/statmap/pkg/bivariate"
	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/compose"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/palette"
	"github.com/matzehuels/statmap/pkg/stat"
)

// MapType selects a thematic engine.
type MapType string

const (
	Choropleth         MapType = "choropleth"
	ProportionalSymbol MapType = "proportional-symbol"
	Bivariate          MapType = "bivariate"
	PieChart           MapType = "piechart"
	Stripe             MapType = "stripe"
)

// MapTypes lists the supported map types.
var MapTypes = []MapType{Choropleth, ProportionalSymbol, Bivariate, PieChart, Stripe}

var mapTypeAliases = map[string]MapType{
	"ch":    Choropleth,
	"ps":    ProportionalSymbol,
	"chbi":  Bivariate,
	"pie":   PieChart,
	"scomp": Stripe,
}

// ParseMapType accepts a map type name or its short alias.
func ParseMapType(s string) (MapType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := mapTypeAliases[s]; ok {
		return t, nil
	}
	if slices.Contains(MapTypes, MapType(s)) {
		return MapType(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidMapType, "unknown map type %q", s)
}

// Default map styling.
const (
	DefaultNoDataColor = "#a9a9a9"
	DefaultStripeWidth = 10.0
)

var (
	// DefaultSymbolRange is the radius range of proportional symbols.
	DefaultSymbolRange = [2]float64{0.4, 15}
	// DefaultPieRange is the radius range of pie charts.
	DefaultPieRange = [2]float64{5, 15}
)

// LegendConfig configures the legend of a map.
type LegendConfig struct {
	Title      string `json:"title,omitempty" toml:"title"`
	SizeTitle  string `json:"size_title,omitempty" toml:"size_title"`
	Descending bool   `json:"descending,omitempty" toml:"descending"`
	// Descending2 orders the second axis of a bivariate legend.
	Descending2 bool `json:"descending2,omitempty" toml:"descending2"`
	NoData      bool `json:"no_data" toml:"no_data"`
	// Style overrides the layout defaults of the map type.
	Style *legend.Style `json:"style,omitempty" toml:"style"`
}

// Config configures one map.
type Config struct {
	MapType  MapType         `json:"map_type"`
	Classify classify.Config `json:"classify"`

	// Bivariate configures both axes and the ramp of a bivariate map.
	Bivariate bivariate.Config `json:"bivariate"`

	// Colors lists explicit class colors; otherwise Scheme is sampled.
	Colors      []string `json:"colors,omitempty"`
	Scheme      string   `json:"scheme,omitempty"`
	NoDataColor string   `json:"no_data_color,omitempty"`

	// SizeRange is the [min, max] symbol radius. SizeDomainMin, when set,
	// fixes the start of the proportional-symbol size domain.
	SizeRange     [2]float64 `json:"size_range"`
	SizeDomainMin *float64   `json:"size_domain_min,omitempty"`

	// Categories lists composition category codes in display order. When
	// empty, every non-reserved role of the collection is used, in collection order.
	Categories     []string          `json:"categories,omitempty"`
	CategoryLabels map[string]string `json:"category_labels,omitempty"`
	CategoryColors map[string]string `json:"category_colors,omitempty"`
	Compose        compose.Options   `json:"compose"`
	StripeWidth    float64           `json:"stripe_width,omitempty"`

	Legend  LegendConfig `json:"legend"`
	Workers int          `json:"workers,omitempty"`
}

// withDefaults fills unset fields for the map type.
func (c Config) withDefaults() Config {
	if c.MapType == "" {
		c.MapType = Choropleth
	}
	if c.Classify.Method == "" {
		c.Classify.Method = classify.Quantile
	}
	if c.Classify.ClassCount == 0 && c.Classify.Method != classify.Threshold {
		c.Classify.ClassCount = classify.DefaultClassCount
	}
	if c.NoDataColor == "" {
		c.NoDataColor = DefaultNoDataColor
	}
	if c.SizeRange == ([2]float64{}) {
		switch c.MapType {
		case PieChart:
			c.SizeRange = DefaultPieRange
		default:
			c.SizeRange = DefaultSymbolRange
		}
	}
	if c.StripeWidth <= 0 {
		c.StripeWidth = DefaultStripeWidth
	}
	if c.MapType == Stripe {
		c.Compose.RequireComplete = true
	}
	return c
}

// Validate reports misconfiguration for the map type.
func (c Config) Validate() error {
	c = c.withDefaults()
	if _, err := ParseMapType(string(c.MapType)); err != nil {
		return err
	}
	if err := palette.Validate(c.NoDataColor); err != nil {
		return err
	}
	for _, col := range c.Colors {
		if err := palette.Validate(col); err != nil {
			return err
		}
	}

	switch c.MapType {
	case Choropleth:
		return c.Classify.Validate()
	case ProportionalSymbol:
		return classify.ValidateSizeRange(c.SizeRange)
	case Bivariate:
		_, err := bivariate.New(nil, nil, c.Bivariate)
		return err
	case PieChart:
		if err := classify.ValidateSizeRange(c.SizeRange); err != nil {
			return err
		}
	}
	return c.validateCategories()
}

func (c Config) validateCategories() error {
	seen := map[string]bool{}
	for _, code := range c.Categories {
		if code == "" || seen[code] {
			return errors.New(errors.ErrCodeInvalidCategories, "empty or duplicate category code %q", code)
		}
		seen[code] = true
	}
	_, err := palette.Categories(c.Categories, c.CategoryColors)
	return err
}

// reservedRoles are never taken as composition categories.
var reservedRoles = []string{stat.RoleDefault, stat.RoleV1, stat.RoleV2, stat.RoleSize, stat.RoleColor}

// categories resolves the category codes against the collection.
func (c Config) categories(data *stat.Collection) []string {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	var out []string
	for _, r := range data.Roles() {
		if !slices.Contains(reservedRoles, r) {
			out = append(out, r)
		}
	}
	return out
}

func (c Config) builder() *legend.Builder {
	if c.Legend.Style != nil {
		return legend.New(*c.Legend.Style)
	}
	switch c.MapType {
	case PieChart, Stripe:
		return legend.New(legend.DefaultCompositionStyle())
	}
	return legend.New(legend.DefaultStyle())
}
