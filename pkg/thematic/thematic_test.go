package thematic

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/statmap/pkg/bivariate"
	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/compose"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/stat"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func collection(roles map[string]map[string]any) *stat.Collection {
	c := stat.NewCollection()
	for _, role := range []string{stat.RoleDefault, stat.RoleSize, stat.RoleV1, stat.RoleV2, "A", "B", "C"} {
		if vals, ok := roles[role]; ok {
			c.Put(role, stat.FromValues(vals))
		}
	}
	return c
}

func oneToTen() map[string]any {
	m := map[string]any{}
	for i := 1; i <= 10; i++ {
		m[fmt.Sprintf("r%02d", i)] = float64(i)
	}
	return m
}

func TestChoropleth(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleDefault: oneToTen()})
	colors := []string{"#ffffcc", "#c2e699", "#78c679", "#31a354", "#006837"}
	cfg := Config{
		MapType:  Choropleth,
		Classify: classify.Config{Method: classify.Quantile, ClassCount: 5},
		Colors:   colors,
		Legend:   LegendConfig{Title: "Density", NoData: true},
	}
	regions := []string{"r05", "zz", "r10", "r01"}

	res, err := Run(context.Background(), cfg, data, regions)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]float64{2, 4, 6, 8}, res.Classification.Boundaries); diff != "" {
		t.Errorf("boundaries (-want +got):\n%s", diff)
	}
	var ids []string
	for _, r := range res.Regions {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff(regions, ids); diff != "" {
		t.Errorf("region order (-want +got):\n%s", diff)
	}

	r5, _ := res.Region("r05")
	if *r5.Class != 2 || r5.Color != colors[2] {
		t.Errorf("r05 = class %d color %s", *r5.Class, r5.Color)
	}
	r10, _ := res.Region("r10")
	if *r10.Class != 4 {
		t.Errorf("r10 class = %d", *r10.Class)
	}
	zz, _ := res.Region("zz")
	if !zz.NoData || zz.Color != DefaultNoDataColor || zz.Class != nil {
		t.Errorf("zz = %+v", zz)
	}
	if res.NoData != 1 {
		t.Errorf("NoData = %d", res.NoData)
	}
	if diff := cmp.Diff([]int{2, 2, 2, 2, 2}, res.Counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	if res.Legend.Layout != legend.LayoutLadder || len(res.Legend.Filter(legend.KindNoData)) != 1 {
		t.Errorf("legend = %+v", res.Legend.Layout)
	}
}

func TestChoroplethDefaultsToAllRegions(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleDefault: {"AT": 1.0, "BE": nil}})
	res, err := Run(context.Background(), Config{}, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions) != 2 || res.NoData != 1 {
		t.Errorf("regions = %d, no data = %d", len(res.Regions), res.NoData)
	}
	if len(res.Colors) != classify.DefaultClassCount {
		t.Errorf("colors = %d, want %d", len(res.Colors), classify.DefaultClassCount)
	}
}

func TestMisconfigurationFailsBeforeWork(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"class count", Config{Classify: classify.Config{ClassCount: -1}}, errors.ErrCodeInvalidClassCount},
		{"thresholds", Config{Classify: classify.Config{Method: classify.Threshold, Thresholds: []float64{5, 1}}}, errors.ErrCodeInvalidThresholds},
		{"method", Config{Classify: classify.Config{Method: "jenks"}}, errors.ErrCodeInvalidMethod},
		{"map type", Config{MapType: "heatmap"}, errors.ErrCodeInvalidMapType},
		{"no data color", Config{NoDataColor: "grey"}, errors.ErrCodeInvalidColor},
		{"size range", Config{MapType: ProportionalSymbol, SizeRange: [2]float64{10, 1}}, errors.ErrCodeInvalidSizeRange},
		{"pie size range", Config{MapType: PieChart, SizeRange: [2]float64{-1, 1}}, errors.ErrCodeInvalidSizeRange},
		{"ramp", Config{MapType: Bivariate, Bivariate: bivariate.Config{Ramp: bivariate.Ramp{Start: "nope"}}}, errors.ErrCodeInvalidColor},
		{"categories", Config{MapType: Stripe, Categories: []string{"A", "A"}}, errors.ErrCodeInvalidCategories},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.cfg, nil, []string{"AT"})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestMissingDataset(t *testing.T) {
	_, err := Run(context.Background(), Config{MapType: Bivariate}, collection(map[string]map[string]any{stat.RoleV1: {"AT": 1.0}}), nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestProportionalSymbols(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleSize: {"a": 0.0, "b": 25.0, "c": 100.0, "d": nil}})
	cfg := Config{MapType: ProportionalSymbol, SizeRange: [2]float64{1, 30}}

	res, err := Run(context.Background(), cfg, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"a": 1, "b": 15.5, "c": 30}
	for id, size := range want {
		r, _ := res.Region(id)
		if r.Size == nil || !cmp.Equal(*r.Size, size, approx) {
			t.Errorf("%s size = %v, want %v", id, r.Size, size)
		}
	}
	if d, _ := res.Region("d"); !d.NoData || d.Size != nil {
		t.Errorf("d = %+v", d)
	}
	if diff := cmp.Diff(&[2]float64{0, 100}, res.SizeDomain); diff != "" {
		t.Errorf("size domain (-want +got):\n%s", diff)
	}
	if res.Legend.Layout != legend.LayoutSize || len(res.Legend.Filter(legend.KindCircle)) != 3 {
		t.Errorf("legend circles = %d", len(res.Legend.Filter(legend.KindCircle)))
	}
}

func TestProportionalSymbolsDomainMin(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleSize: {"a": 10.0, "b": 20.0}})
	lo := 10.0
	res, err := Run(context.Background(), Config{MapType: ProportionalSymbol, SizeRange: [2]float64{2, 8}, SizeDomainMin: &lo}, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a, _ := res.Region("a"); *a.Size != 2 {
		t.Errorf("a size = %v, want 2", *a.Size)
	}
	if b, _ := res.Region("b"); *b.Size != 8 {
		t.Errorf("b size = %v, want 8", *b.Size)
	}
}

func TestBivariate(t *testing.T) {
	data := collection(map[string]map[string]any{
		stat.RoleV1: {"a": 5.0, "b": 20.0, "c": 1.0},
		stat.RoleV2: {"a": 5.0, "b": 5.0},
	})
	axis := classify.Config{Method: classify.Threshold, Thresholds: []float64{10}}
	cfg := Config{MapType: Bivariate, Bivariate: bivariate.Config{Axis1: axis, Axis2: axis}, Legend: LegendConfig{NoData: true}}

	res, err := Run(context.Background(), cfg, data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matrix) != 2 || len(res.Matrix[0]) != 2 {
		t.Fatalf("matrix = %v", res.Matrix)
	}

	a, _ := res.Region("a")
	if diff := cmp.Diff(&bivariate.Cell{Row: 0, Col: 0}, a.Cell); diff != "" {
		t.Errorf("a cell (-want +got):\n%s", diff)
	}
	if a.Color != bivariate.DefaultRamp.Start {
		t.Errorf("a color = %s", a.Color)
	}
	b, _ := res.Region("b")
	if *b.Cell != (bivariate.Cell{Row: 1, Col: 0}) || b.Color != res.Matrix[1][0] {
		t.Errorf("b = %+v", b)
	}
	if c, _ := res.Region("c"); !c.NoData {
		t.Errorf("c should be no data: %+v", c)
	}
	if len(res.Axes) != 2 || len(res.Legend.Filter(legend.KindSwatch)) != 4 {
		t.Errorf("axes = %d, swatches = %d", len(res.Axes), len(res.Legend.Filter(legend.KindSwatch)))
	}
}

func compositionData() *stat.Collection {
	return collection(map[string]map[string]any{
		"A": {"r1": 30.0, "r2": 10.0},
		"B": {"r1": 0.0, "r2": 10.0},
		"C": {"r1": 70.0},
	})
}

func TestPieChart(t *testing.T) {
	cfg := Config{MapType: PieChart, Categories: []string{"A", "B", "C"}, Legend: LegendConfig{NoData: true}}
	res, err := Run(context.Background(), cfg, compositionData(), []string{"r1", "r2", "r3"})
	if err != nil {
		t.Fatal(err)
	}

	r1, _ := res.Region("r1")
	if diff := cmp.Diff(map[string]float64{"A": 0.3, "B": 0, "C": 0.7}, r1.Composition.Shares, approx); diff != "" {
		t.Errorf("r1 shares (-want +got):\n%s", diff)
	}
	if len(r1.Slices) != 3 || !cmp.Equal(*r1.Size, 15.0, approx) {
		t.Errorf("r1 slices = %d size = %v", len(r1.Slices), *r1.Size)
	}

	r2, _ := res.Region("r2")
	if r2.Composition.Complete || !cmp.Equal(*r2.Size, 5.0, approx) {
		t.Errorf("r2 = %+v size %v", r2.Composition, *r2.Size)
	}
	if r3, _ := res.Region("r3"); !r3.NoData {
		t.Errorf("r3 should be no data")
	}

	if diff := cmp.Diff(&[2]float64{20, 100}, res.SizeDomain); diff != "" {
		t.Errorf("size domain (-want +got):\n%s", diff)
	}
	if res.Legend.Layout != legend.LayoutComposition || len(res.Legend.Filter(legend.KindCircle)) == 0 {
		t.Errorf("pie legend should carry a size block")
	}
	if len(res.CategoryColors) != 3 {
		t.Errorf("category colors = %v", res.CategoryColors)
	}
}

func TestPieChartZeroAsMissing(t *testing.T) {
	cfg := Config{MapType: PieChart, Categories: []string{"A", "B", "C"}, Compose: compose.Options{ZeroAsMissing: true}}
	res, err := Run(context.Background(), cfg, compositionData(), []string{"r1"})
	if err != nil {
		t.Fatal(err)
	}
	r1 := res.Regions[0]
	if diff := cmp.Diff([]string{"A", "C"}, r1.Composition.Codes); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
}

func TestStripeRequiresComplete(t *testing.T) {
	cfg := Config{MapType: Stripe}
	res, err := Run(context.Background(), cfg, compositionData(), []string{"r1", "r2"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, res.Categories); diff != "" {
		t.Errorf("categories from roles (-want +got):\n%s", diff)
	}

	r1 := res.Regions[0]
	want := []compose.Stripe{{Code: "A", Offset: 0, Width: 3}, {Code: "B", Offset: 3, Width: 0}, {Code: "C", Offset: 3, Width: 7}}
	if diff := cmp.Diff(want, r1.Stripes, approx); diff != "" {
		t.Errorf("stripes (-want +got):\n%s", diff)
	}
	if !res.Regions[1].NoData {
		t.Error("r2 lacks C and stripes always require complete data")
	}
	if len(res.Legend.Filter(legend.KindCircle)) != 0 {
		t.Error("stripe legend has no size block")
	}
}

func TestCompositionWithoutCategories(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleDefault: {"AT": 1.0}})
	_, err := Run(context.Background(), Config{MapType: PieChart}, data, nil)
	if !errors.Is(err, errors.ErrCodeInvalidCategories) {
		t.Errorf("err = %v", err)
	}
}

func TestRunIsOrderStableAcrossWorkers(t *testing.T) {
	data := collection(map[string]map[string]any{stat.RoleDefault: oneToTen()})
	var regions []string
	for i := 10; i >= 1; i-- {
		regions = append(regions, fmt.Sprintf("r%02d", i))
	}

	var first *Result
	for _, w := range []int{1, 3, 16} {
		res, err := Run(context.Background(), Config{Workers: w}, data, regions)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = res
			continue
		}
		if diff := cmp.Diff(first.Regions, res.Regions, cmp.Comparer(func(a, b stat.Value) bool { return a.String() == b.String() })); diff != "" {
			t.Errorf("workers=%d differs (-first +got):\n%s", w, diff)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := collection(map[string]map[string]any{stat.RoleDefault: oneToTen()})
	if _, err := Run(ctx, Config{}, data, nil); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseMapType(t *testing.T) {
	for in, want := range map[string]MapType{"ch": Choropleth, "PS": ProportionalSymbol, "chbi": Bivariate, "pie": PieChart, "stripe": Stripe} {
		got, err := ParseMapType(in)
		if err != nil || got != want {
			t.Errorf("ParseMapType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMapType("flow"); !errors.Is(err, errors.ErrCodeInvalidMapType) {
		t.Errorf("unknown type: %v", err)
	}
}
