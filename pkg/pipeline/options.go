package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/statmap/pkg/bivariate"
	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/compose"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/render/sink"
	"github.com/matzehuels/statmap/pkg/source"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one map. It is the configuration
// surface shared by TOML files, CLI flags and API requests.
type Options struct {
	MapType string `json:"map_type,omitempty" toml:"map_type"`

	// Classification of the main variable (and the first bivariate axis)
	ClassificationMethod string    `json:"classification_method,omitempty" toml:"classification_method"`
	ClassCount           int       `json:"class_count,omitempty" toml:"class_count"`
	Thresholds           []float64 `json:"thresholds,omitempty" toml:"thresholds"`
	MakeNice             bool      `json:"make_nice,omitempty" toml:"make_nice"`

	// Second bivariate axis; unset fields fall back to the first axis
	ClassificationMethod2 string    `json:"classification_method2,omitempty" toml:"classification_method2"`
	ClassCount2           int       `json:"class_count2,omitempty" toml:"class_count2"`
	Thresholds2           []float64 `json:"thresholds2,omitempty" toml:"thresholds2"`

	// Compositions
	RequireCompleteComposition bool              `json:"require_complete_composition,omitempty" toml:"require_complete_composition"`
	ZeroAsMissing              bool              `json:"zero_as_missing,omitempty" toml:"zero_as_missing"`
	CategoryCodes              []string          `json:"category_codes,omitempty" toml:"category_codes"`
	CategoryLabels             map[string]string `json:"category_labels,omitempty" toml:"category_labels"`
	CategoryColors             map[string]string `json:"category_colors,omitempty" toml:"category_colors"`
	StripeWidth                float64           `json:"stripe_width,omitempty" toml:"stripe_width"`

	// Sizes
	SizeRange     []float64 `json:"size_range,omitempty" toml:"size_range"`
	SizeDomainMin *float64  `json:"size_domain_min,omitempty" toml:"size_domain_min"`

	// Colors
	ColorRampEndpoints []string `json:"color_ramp_endpoints,omitempty" toml:"color_ramp_endpoints"`
	ColorArray         []string `json:"color_array,omitempty" toml:"color_array"`
	ColorScheme        string   `json:"color_scheme,omitempty" toml:"color_scheme"`
	NoDataColor        string   `json:"no_data_color,omitempty" toml:"no_data_color"`

	Legend LegendOptions `json:"legend" toml:"legend"`

	// Inputs: the region universe and one dataset per role
	Regions  []string               `json:"regions,omitempty" toml:"regions"`
	Datasets map[string]source.Spec `json:"datasets" toml:"datasets"`

	// Render and runtime options
	Formats []string `json:"formats,omitempty" toml:"formats"`
	Workers int      `json:"workers,omitempty" toml:"workers"`
	Refresh bool     `json:"refresh,omitempty" toml:"-"`
}

// LegendOptions configures the legend. Style fields left at zero keep the
// default of the map type.
type LegendOptions struct {
	Title       string        `json:"title,omitempty" toml:"title"`
	SizeTitle   string        `json:"size_title,omitempty" toml:"size_title"`
	Descending  bool          `json:"descending,omitempty" toml:"descending"`
	Descending2 bool          `json:"descending2,omitempty" toml:"descending2"`
	NoData      *bool         `json:"no_data,omitempty" toml:"no_data"`
	Background  string        `json:"background,omitempty" toml:"background"`
	FontFamily  string        `json:"font_family,omitempty" toml:"font_family"`
	Style       *legend.Style `json:"style,omitempty" toml:"style"`
}

// LoadFile reads options from a TOML file. Relative dataset paths are
// resolved against the directory of the file.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	opts, err := Decode(data)
	if err != nil {
		return Options{}, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	dir := filepath.Dir(path)
	for role, ds := range opts.Datasets {
		if ds.Path != "" && !filepath.IsAbs(ds.Path) {
			ds.Path = filepath.Join(dir, ds.Path)
			opts.Datasets[role] = ds
		}
	}
	return opts, nil
}

// Decode parses TOML options.
func Decode(data []byte) (Options, error) {
	var opts Options
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse options")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Options{}, errors.New(errors.ErrCodeInvalidInput, "unknown option keys: %v", keys)
	}
	return opts, nil
}

// Encode writes options as TOML.
func (o Options) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode options")
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.MapType == "" {
		o.MapType = string(DefaultMapType)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.Legend.NoData == nil {
		show := true
		o.Legend.NoData = &show
	}
}

// Validate checks the options before any dataset is loaded, so
// misconfiguration fails before region work starts.
func (o *Options) Validate() error {
	o.SetDefaults()
	cfg, err := o.Thematic()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if len(o.Datasets) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no datasets configured")
	}
	for _, role := range o.Roles() {
		if err := o.Datasets[role].Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "dataset %q", role)
		}
	}
	for _, role := range thematic.Required(cfg.MapType) {
		if _, ok := o.Datasets[role]; !ok {
			return errors.New(errors.ErrCodeInvalidInput, "%s map needs a %q dataset", cfg.MapType, role)
		}
	}
	return nil
}

// Roles returns the configured dataset roles in sorted order.
func (o *Options) Roles() []string {
	roles := make([]string, 0, len(o.Datasets))
	for r := range o.Datasets {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Thematic converts the options into an engine configuration.
func (o *Options) Thematic() (thematic.Config, error) {
	mt := DefaultMapType
	if o.MapType != "" {
		var err error
		if mt, err = thematic.ParseMapType(o.MapType); err != nil {
			return thematic.Config{}, err
		}
	}
	axis1, err := classifyConfig(o.ClassificationMethod, o.ClassCount, o.Thresholds, o.MakeNice)
	if err != nil {
		return thematic.Config{}, err
	}

	cfg := thematic.Config{
		MapType:        mt,
		Classify:       axis1,
		Colors:         o.ColorArray,
		Scheme:         o.ColorScheme,
		NoDataColor:    o.NoDataColor,
		SizeDomainMin:  o.SizeDomainMin,
		Categories:     o.CategoryCodes,
		CategoryLabels: o.CategoryLabels,
		CategoryColors: o.CategoryColors,
		StripeWidth:    o.StripeWidth,
		Workers:        o.Workers,
		Compose: compose.Options{
			RequireComplete: o.RequireCompleteComposition,
			ZeroAsMissing:   o.ZeroAsMissing,
		},
		Legend: thematic.LegendConfig{
			Title:       o.Legend.Title,
			SizeTitle:   o.Legend.SizeTitle,
			Descending:  o.Legend.Descending,
			Descending2: o.Legend.Descending2,
			NoData:      o.Legend.NoData == nil || *o.Legend.NoData,
		},
	}

	if len(o.SizeRange) > 0 {
		if len(o.SizeRange) != 2 {
			return thematic.Config{}, errors.New(errors.ErrCodeInvalidSizeRange,
				"size_range needs [min, max], got %d values", len(o.SizeRange))
		}
		cfg.SizeRange = [2]float64{o.SizeRange[0], o.SizeRange[1]}
	}

	if mt == thematic.Bivariate {
		method2, count2, thresholds2 := o.ClassificationMethod2, o.ClassCount2, o.Thresholds2
		if method2 == "" {
			method2 = o.ClassificationMethod
		}
		if count2 == 0 {
			count2 = o.ClassCount
		}
		if len(thresholds2) == 0 {
			thresholds2 = o.Thresholds
		}
		axis2, err := classifyConfig(method2, count2, thresholds2, o.MakeNice)
		if err != nil {
			return thematic.Config{}, err
		}
		cfg.Bivariate = bivariate.Config{Axis1: axis1, Axis2: axis2}
		if len(o.ColorRampEndpoints) > 0 {
			if cfg.Bivariate.Ramp, err = bivariate.RampFromSlice(o.ColorRampEndpoints); err != nil {
				return thematic.Config{}, err
			}
		}
	}

	if o.Legend.Style != nil {
		st := mergeStyle(defaultStyle(mt), *o.Legend.Style)
		cfg.Legend.Style = &st
	}
	return cfg, nil
}

func classifyConfig(method string, count int, thresholds []float64, nice bool) (classify.Config, error) {
	m, err := classify.ParseMethod(method)
	if err != nil {
		return classify.Config{}, err
	}
	return classify.Config{Method: m, ClassCount: count, Thresholds: thresholds, Nice: nice}, nil
}

func defaultStyle(mt thematic.MapType) legend.Style {
	if mt == thematic.PieChart || mt == thematic.Stripe {
		return legend.DefaultCompositionStyle()
	}
	return legend.DefaultStyle()
}

// mergeStyle overlays the non-zero fields of over onto base.
func mergeStyle(base, over legend.Style) legend.Style {
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&base.BoxPadding, over.BoxPadding)
	setF(&base.TitleFontSize, over.TitleFontSize)
	setF(&base.TitleWidth, over.TitleWidth)
	setF(&base.LabelFontSize, over.LabelFontSize)
	setF(&base.LabelOffset, over.LabelOffset)
	setF(&base.ShapeWidth, over.ShapeWidth)
	setF(&base.ShapeHeight, over.ShapeHeight)
	setF(&base.ShapePadding, over.ShapePadding)
	setF(&base.ShapeSize, over.ShapeSize)
	setF(&base.LegendSpacing, over.LegendSpacing)
	setF(&base.SizeTitlePadding, over.SizeTitlePadding)
	if over.LabelDecimals != 0 {
		base.LabelDecimals = over.LabelDecimals
	}
	if over.NoDataText != "" {
		base.NoDataText = over.NoDataText
	}
	if over.FallbackColor != "" {
		base.FallbackColor = over.FallbackColor
	}
	return base
}

// svgOptions returns the sink options of the legend.
func (o *Options) svgOptions() []sink.SVGOption {
	var opts []sink.SVGOption
	if o.Legend.Background != "" {
		opts = append(opts, sink.WithBackground(o.Legend.Background))
	}
	if o.Legend.FontFamily != "" {
		opts = append(opts, sink.WithFontFamily(o.Legend.FontFamily))
	}
	return opts
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(sink.Formats, sink.Format(format)) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
