package thematic

import (
	"context"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/palette"
	"github.com/matzehuels/statmap/pkg/stat"
)

func runChoropleth(ctx context.Context, cfg Config, data *stat.Collection, regions []string) (*Result, error) {
	if err := ready(data, stat.RoleDefault); err != nil {
		return nil, err
	}
	ix := data.Role(stat.RoleDefault)
	domain := ix.Array()

	c, err := classify.Build(domain, cfg.Classify)
	if err != nil {
		return nil, err
	}
	colors, err := palette.Classes(cfg.Scheme, cfg.Colors, c.ClassCount())
	if err != nil {
		return nil, err
	}

	out, err := forEach(ctx, cfg.Workers, universe(regions, data, stat.RoleDefault), func(id string) Region {
		s, _ := ix.Get(id)
		class, ok := c.ClassifyValue(s.Value)
		if !ok {
			return noData(id, s, cfg.NoDataColor)
		}
		return Region{ID: id, Value: s.Value, Status: s.Status, Class: ptr(class), Color: colors[class]}
	})
	if err != nil {
		return nil, err
	}

	cls := c.Classification()
	return &Result{
		Regions:        out,
		Classification: &cls,
		Counts:         c.Counts(domain),
		Colors:         colors,
		Legend: cfg.builder().Ladder(legend.LadderInput{
			Title:       cfg.Legend.Title,
			Classes:     c,
			Colors:      colors,
			Descending:  cfg.Legend.Descending,
			NoData:      cfg.Legend.NoData,
			NoDataColor: cfg.NoDataColor,
		}),
	}, nil
}
