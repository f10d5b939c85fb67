package thematic

import (
	"context"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/compose"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/palette"
	"github.com/matzehuels/statmap/pkg/stat"
)

// runComposition serves pie chart and stripe maps. Pies are sized by the
// total of their categories against the extent of all regions; stripes
// split a pattern tile of StripeWidth.
func runComposition(ctx context.Context, cfg Config, data *stat.Collection, regions []string) (*Result, error) {
	codes := cfg.categories(data)
	if len(codes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCategories, "%s map needs at least one category dataset", cfg.MapType)
	}
	eng, err := compose.New(codes, data, cfg.Compose)
	if err != nil {
		return nil, err
	}
	colors, err := palette.Categories(codes, cfg.CategoryColors)
	if err != nil {
		return nil, err
	}

	ids := universe(regions, data, codes...)
	pie := cfg.MapType == PieChart

	var scale *classify.SizeScale
	res := &Result{Categories: codes, CategoryColors: colors}
	if pie {
		if scale, err = eng.SizeScale(ids, cfg.SizeRange); err != nil {
			return nil, err
		}
		if lo, hi, ok := scale.Domain(); ok {
			res.SizeDomain = &[2]float64{lo, hi}
		}
	}

	res.Regions, err = forEach(ctx, cfg.Workers, ids, func(id string) Region {
		comp, ok := eng.Composition(id)
		if !ok {
			return noData(id, stat.Stat{}, cfg.NoDataColor)
		}
		r := Region{ID: id, Value: stat.Number(comp.Total), Composition: &comp}
		if pie {
			r.Slices = compose.Pie(comp)
			r.Size = ptr(scale.Size(comp.Total))
		} else {
			r.Stripes = compose.Stripes(comp, cfg.StripeWidth)
		}
		return r
	})
	if err != nil {
		return nil, err
	}

	in := legend.CompositionInput{
		Title:       cfg.Legend.Title,
		Codes:       codes,
		Labels:      cfg.CategoryLabels,
		Colors:      colors,
		NoData:      cfg.Legend.NoData,
		NoDataColor: cfg.NoDataColor,
	}
	if pie {
		in.Size = &legend.SizeInput{Title: cfg.Legend.SizeTitle, Scale: scale}
	}
	res.Legend = cfg.builder().Composition(in)
	return res, nil
}
