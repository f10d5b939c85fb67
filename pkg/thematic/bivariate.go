package thematic

import (
	"context"

	"github.com/matzehuels/statmap/pkg/bivariate"
	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/stat"
)

func runBivariate(ctx context.Context, cfg Config, data *stat.Collection, regions []string) (*Result, error) {
	if err := ready(data, stat.RoleV1, stat.RoleV2); err != nil {
		return nil, err
	}
	ix1, ix2 := data.Role(stat.RoleV1), data.Role(stat.RoleV2)

	b, err := bivariate.New(ix1.Array(), ix2.Array(), cfg.Bivariate)
	if err != nil {
		return nil, err
	}

	out, err := forEach(ctx, cfg.Workers, universe(regions, data, stat.RoleV1, stat.RoleV2), func(id string) Region {
		s1, _ := ix1.Get(id)
		s2, _ := ix2.Get(id)
		cell, ok := b.Classify(s1.Value, s2.Value)
		if !ok {
			s := s1
			if !s1.Value.IsMissing() {
				s = s2
			}
			return noData(id, s, cfg.NoDataColor)
		}
		return Region{ID: id, Value: s1.Value, Status: s1.Status, Cell: ptr(cell), Color: b.ColorAt(cell)}
	})
	if err != nil {
		return nil, err
	}

	matrix := b.Matrix()
	return &Result{
		Regions: out,
		Axes:    []classify.Classification{b.Axis1().Classification(), b.Axis2().Classification()},
		Matrix:  matrix,
		Legend: cfg.builder().Matrix(legend.MatrixInput{
			Title:       cfg.Legend.Title,
			Colors:      matrix,
			Descending1: cfg.Legend.Descending,
			Descending2: cfg.Legend.Descending2,
			NoData:      cfg.Legend.NoData,
			NoDataColor: cfg.NoDataColor,
		}),
	}, nil
}
