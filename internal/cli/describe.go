package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/palette"
	"github.com/matzehuels/statmap/pkg/source"
	"github.com/matzehuels/statmap/pkg/stat"
)

// datasetFlags describe a single dataset on the command line.
type datasetFlags struct {
	format    string
	geoCol    string
	valueCol  string
	statusCol string
	nutsLevel int
	time      string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "dataset format: json, jsonstat, csv (default: detect)")
	cmd.Flags().StringVar(&f.geoCol, "geo-col", "", "CSV region column (default: geo)")
	cmd.Flags().StringVar(&f.valueCol, "value-col", "", "CSV value column (default: value)")
	cmd.Flags().StringVar(&f.statusCol, "status-col", "", "CSV status column")
	cmd.Flags().IntVar(&f.nutsLevel, "nuts-level", 3, "NUTS level of eurostat datasets")
	cmd.Flags().StringVar(&f.time, "time", "", "time period of eurostat datasets")
}

// spec turns an argument into a dataset spec. "eurostat:<code>" selects the
// statistics API, anything else is a local file.
func (f *datasetFlags) spec(arg string) source.Spec {
	if code, ok := strings.CutPrefix(arg, "eurostat:"); ok {
		return source.Spec{Eurostat: &source.EurostatRequest{
			Dataset:   code,
			NUTSLevel: f.nutsLevel,
			Time:      f.time,
		}}
	}
	return source.Spec{
		Path:      arg,
		Format:    source.Format(f.format),
		GeoCol:    f.geoCol,
		ValueCol:  f.valueCol,
		StatusCol: f.statusCol,
	}
}

// describeCommand creates the describe command.
func (c *CLI) describeCommand() *cobra.Command {
	var (
		ds      datasetFlags
		method  string
		classes int
		scheme  string
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "describe <dataset>",
		Short: "Print summary statistics and class breaks of a dataset",
		Example: `  statmap describe density.csv
  statmap describe eurostat:demo_r_d3dens --nuts-level 2 -m quantile -k 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *classify.Config
			if cmd.Flags().Changed("method") || cmd.Flags().Changed("classes") {
				m, err := classify.ParseMethod(method)
				if err != nil {
					return err
				}
				cfg = &classify.Config{Method: m, ClassCount: classes}
			}
			return c.runDescribe(cmd.Context(), ds.spec(args[0]), cfg, scheme, asJSON, noCache)
		},
	}

	ds.register(cmd)
	cmd.Flags().StringVarP(&method, "method", "m", "", "show classes for a method: quantile, equal-interval")
	cmd.Flags().IntVarP(&classes, "classes", "k", classify.DefaultClassCount, "number of classes")
	cmd.Flags().StringVar(&scheme, "scheme", palette.DefaultScheme, "color scheme of the class table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runDescribe(ctx context.Context, spec source.Spec, cfg *classify.Config, scheme string, asJSON, noCache bool) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	ds, err := runner.Loader.Load(ctx, spec)
	if err != nil {
		return err
	}
	sum := ds.Index.Summarize()

	if asJSON {
		data, err := json.MarshalIndent(summaryJSON(sum), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	title := ds.Label
	if title == "" {
		title = spec.String()
	}
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	printSummary(ds, sum)

	if cfg != nil {
		rows, err := classRows(ds.Index, *cfg, scheme)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, classTable(rows, -1).Render())
	}
	return nil
}

func printSummary(ds *source.Dataset, s stat.Summary) {
	printKeyValue("Source", ds.Source)
	if ds.Time != "" {
		printKeyValue("Time", ds.Time)
	}
	printKeyValue("Regions", humanize.Comma(int64(s.Regions)))
	printKeyValue("Numeric", humanize.Comma(int64(s.Numeric)))
	if s.Missing > 0 {
		printKeyValue("Missing", humanize.Comma(int64(s.Missing)))
	}
	if s.Numeric == 0 {
		return
	}
	printKeyValue("Min", formatNumber(s.Min))
	printKeyValue("Median", formatNumber(s.Median))
	printKeyValue("Mean", formatNumber(s.Mean))
	printKeyValue("Max", formatNumber(s.Max))
	printKeyValue("Std dev", formatNumber(s.StdDev))

	if len(s.Statuses) > 0 {
		flags := make([]string, 0, len(s.Statuses))
		for f := range s.Statuses {
			flags = append(flags, f)
		}
		sort.Strings(flags)
		parts := make([]string, len(flags))
		for i, f := range flags {
			parts[i] = fmt.Sprintf("%s=%d", f, s.Statuses[f])
		}
		printKeyValue("Statuses", strings.Join(parts, " "))
	}
}

// summaryJSON replaces NaN statistics, which encoding/json rejects.
func summaryJSON(s stat.Summary) map[string]any {
	num := func(x float64) any {
		if math.IsNaN(x) {
			return nil
		}
		return x
	}
	return map[string]any{
		"regions":  s.Regions,
		"numeric":  s.Numeric,
		"missing":  s.Missing,
		"min":      num(s.Min),
		"max":      num(s.Max),
		"mean":     num(s.Mean),
		"std_dev":  num(s.StdDev),
		"median":   num(s.Median),
		"statuses": s.Statuses,
	}
}

// formatNumber prints at most two decimals with thousands
// separators, rounding half away from zero.
func formatNumber(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	if r := math.Round(x*100) / 100; !math.IsInf(r, 0) {
		x = r
	}
	return humanize.CommafWithDigits(x, 2)
}

// =============================================================================
// Class Table
// =============================================================================

// classRow is one class of a classification preview.
type classRow struct {
	Class int
	From  float64
	To    float64
	Count int
	Color string
}

// classRows classifies the numeric values of an index and colors the classes
// with a scheme.
func classRows(ix *stat.Index, cfg classify.Config, scheme string) ([]classRow, error) {
	domain := ix.Array()
	cl, err := classify.Build(domain, cfg)
	if err != nil {
		return nil, err
	}
	colors, err := palette.Sequential(scheme, cl.ClassCount())
	if err != nil {
		return nil, err
	}
	counts := cl.Counts(domain)
	rows := make([]classRow, cl.ClassCount())
	for i := range rows {
		ext := cl.InvertExtent(i)
		rows[i] = classRow{Class: i, From: ext[0], To: ext[1], Count: counts[i], Color: colors[i]}
	}
	return rows, nil
}

// classTable renders class rows. The row at cursor is highlighted; pass -1
// for none.
func classTable(rows []classRow, cursor int) *table.Table {
	cells := make([][]string, len(rows))
	maxCount := 1
	for _, r := range rows {
		maxCount = max(maxCount, r.Count)
	}
	for i, r := range rows {
		bar := strings.Repeat("▇", r.Count*20/maxCount)
		cells[i] = []string{
			swatch(r.Color),
			strconv.Itoa(r.Class),
			formatNumber(r.From),
			formatNumber(r.To),
			strconv.Itoa(r.Count),
			bar,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Class", "From", "To", "Regions", "").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}
