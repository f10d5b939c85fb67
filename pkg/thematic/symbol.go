package thematic

import (
	"context"
	"math"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/stat"
)

// runSymbols sizes the "size" variable. The size domain runs from
// SizeDomainMin (default 0) to the largest value, so a symbol's area is
// proportional to its value when the domain starts at zero.
func runSymbols(ctx context.Context, cfg Config, data *stat.Collection, regions []string) (*Result, error) {
	if err := ready(data, stat.RoleSize); err != nil {
		return nil, err
	}
	ix := data.Role(stat.RoleSize)

	scale, err := symbolScale(ix, cfg)
	if err != nil {
		return nil, err
	}

	out, err := forEach(ctx, cfg.Workers, universe(regions, data, stat.RoleSize), func(id string) Region {
		s, _ := ix.Get(id)
		size, ok := scale.SizeValue(s.Value)
		if !ok {
			return noData(id, s, cfg.NoDataColor)
		}
		return Region{ID: id, Value: s.Value, Status: s.Status, Size: ptr(size)}
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Regions: out,
		Legend: cfg.builder().SizeLadder(legend.SizeInput{
			Title: cfg.Legend.Title,
			Scale: scale,
		}),
	}
	if lo, hi, ok := scale.Domain(); ok {
		res.SizeDomain = &[2]float64{lo, hi}
	}
	return res, nil
}

func symbolScale(ix *stat.Index, cfg Config) (*classify.SizeScale, error) {
	lo := 0.0
	if cfg.SizeDomainMin != nil {
		lo = *cfg.SizeDomainMin
	}
	hi, ok := ix.Max()
	if !ok {
		return classify.NewSizeScaleExtent(math.NaN(), math.NaN(), cfg.SizeRange)
	}
	return classify.NewSizeScaleExtent(lo, max(hi, lo), cfg.SizeRange)
}
