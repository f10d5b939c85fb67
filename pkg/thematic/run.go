package thematic

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Run classifies every region for the configured map type. regions is the
// universe of regions to style; when nil, every region present in the
// datasets the map type reads is used.
func Run(ctx context.Context, cfg Config, data *stat.Collection, regions []string) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if data == nil {
		data = stat.NewCollection()
	}

	var (
		res *Result
		err error
	)
	switch cfg.MapType {
	case Choropleth:
		res, err = runChoropleth(ctx, cfg, data, regions)
	case ProportionalSymbol:
		res, err = runSymbols(ctx, cfg, data, regions)
	case Bivariate:
		res, err = runBivariate(ctx, cfg, data, regions)
	case PieChart, Stripe:
		res, err = runComposition(ctx, cfg, data, regions)
	}
	if err != nil {
		return nil, err
	}
	res.MapType = cfg.MapType
	res.countNoData()
	return res, nil
}

// Required returns the dataset roles a map type reads. Composition maps read
// one role per category and report none here.
func Required(t MapType) []string {
	switch t {
	case Choropleth:
		return []string{stat.RoleDefault}
	case ProportionalSymbol:
		return []string{stat.RoleSize}
	case Bivariate:
		return []string{stat.RoleV1, stat.RoleV2}
	}
	return nil
}

// ready fails when a required role has no dataset at all. A dataset whose
// regions lack values is fine.
func ready(data *stat.Collection, roles ...string) error {
	if ok, missing := data.Ready(roles...); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "no dataset for role(s) %s", strings.Join(missing, ", "))
	}
	return nil
}

// universe returns regions, or the union of the IDs of the given roles in
// first-seen order.
func universe(regions []string, data *stat.Collection, roles ...string) []string {
	if regions != nil {
		return regions
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range roles {
		for _, id := range data.Role(r).IDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// forEach styles regions in parallel. Each call writes its own slot, so
// output order equals input order.
func forEach(ctx context.Context, workers int, regions []string, fn func(id string) Region) ([]Region, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Region, len(regions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range regions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = fn(id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func noData(id string, s stat.Stat, color string) Region {
	return Region{ID: id, NoData: true, Value: s.Value, Status: s.Status, Color: color}
}
