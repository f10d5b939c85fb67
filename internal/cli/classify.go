package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/pipeline"
	"github.com/matzehuels/statmap/pkg/render/sink"
	"github.com/matzehuels/statmap/pkg/store"
)

// mapFlags holds command-line overrides of a map configuration file.
type mapFlags struct {
	config     string    // TOML configuration file
	mapType    string    // overrides map_type
	method     string    // overrides classification_method
	classes    int       // overrides class_count
	thresholds []float64 // overrides thresholds
	scheme     string    // overrides color_scheme
	title      string    // overrides legend.title
	formats    string    // comma-separated legend formats
	output     string    // base output path
	workers    int       // overrides workers
	noCache    bool      // disable all caching
	refresh    bool      // recompute even when cached
}

func (f *mapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "map configuration file (TOML)")
	cmd.Flags().StringVarP(&f.mapType, "map-type", "t", "", "map type: choropleth, proportional-symbol, bivariate, piechart, stripe")
	cmd.Flags().StringVarP(&f.method, "method", "m", "", "classification method: quantile, equal-interval, threshold")
	cmd.Flags().IntVarP(&f.classes, "classes", "k", 0, "number of classes")
	cmd.Flags().Float64SliceVar(&f.thresholds, "thresholds", nil, "class thresholds (comma-separated)")
	cmd.Flags().StringVar(&f.scheme, "scheme", "", "color scheme, e.g. YlOrRd")
	cmd.Flags().StringVar(&f.title, "title", "", "legend title")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "legend format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "base output path (default: config file name)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent region workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
	_ = cmd.MarkFlagRequired("config")
}

// options loads the configuration file and applies the flags set on cmd.
func (f *mapFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	opts, err := pipeline.LoadFile(f.config)
	if err != nil {
		return pipeline.Options{}, err
	}
	changed := cmd.Flags().Changed
	if changed("map-type") {
		opts.MapType = f.mapType
	}
	if changed("method") {
		opts.ClassificationMethod = f.method
	}
	if changed("classes") {
		opts.ClassCount = f.classes
	}
	if changed("thresholds") {
		opts.Thresholds = f.thresholds
	}
	if changed("scheme") {
		opts.ColorScheme = f.scheme
	}
	if changed("title") {
		opts.Legend.Title = f.title
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// basePath derives the base output path from the output flag and the
// configuration file. Known format extensions are stripped from output.
func (f *mapFlags) basePath() string {
	if f.output == "" {
		return strings.TrimSuffix(f.config, filepath.Ext(f.config))
	}
	ext := filepath.Ext(f.output)
	if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(f.output, ext)
	}
	return f.output
}

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		flags    mapFlags
		storeURL string
		noLegend bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a map configuration into per-region styling",
		Long: `Classify loads the datasets of a map configuration, classifies every region
and writes the styled regions as JSON together with the legend.

Outputs for base path "map":
  map.map.json      regions, classes, colors, sizes and compositions
  map.legend.svg    legend in each requested format`,
		Example: `  statmap classify -c density.toml
  statmap classify -c density.toml -m equal-interval -k 5 -f svg,png
  statmap classify -c density.toml --store mongodb://localhost:27017/statmap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if noLegend {
				opts.Formats = []string{string(sink.FormatJSON)}
			}
			return c.runClassify(cmd.Context(), opts, &flags, storeURL, !noLegend)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&storeURL, "store", "", "save the result to a store (mongodb://... or memory)")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "write only the classified regions")

	return cmd
}

func (c *CLI) runClassify(ctx context.Context, opts pipeline.Options, flags *mapFlags, storeURL string, writeLegend bool) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	spinner := newSpinnerWithContext(ctx, "Loading datasets...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Classification failed")
		return err
	}
	spinner.Stop()

	base := flags.basePath()
	mapPath := base + ".map.json"
	if err := writeJSON(mapPath, res); err != nil {
		return err
	}

	printSuccess("Classified %s map", res.Map.MapType)
	printMapStats(res.Stats.Regions, res.Stats.NoData, classCount(res), res.CacheInfo.ClassifyHit)
	printFile(mapPath)
	if res.Stats.Regions > 0 && res.Stats.NoData == res.Stats.Regions {
		printWarning("No region has classifiable data; check region codes and dataset roles")
	}

	if writeLegend {
		paths, err := writeArtifacts(base+".legend", res.Artifacts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	}

	if storeURL != "" {
		if err := saveResult(ctx, storeURL, res); err != nil {
			return err
		}
		printDetail("Stored as %s", res.ID)
	}

	fmt.Fprintln(stdout)
	printNextStep("Inspect the data", fmt.Sprintf("%s describe %s", appName, firstDatasetPath(opts)))
	return nil
}

// mapOutput is the file layout of a classified map.
type mapOutput struct {
	ID       string                          `json:"id"`
	Map      any                             `json:"map"`
	Datasets map[string]pipeline.DatasetInfo `json:"datasets"`
	Stats    pipeline.Stats                  `json:"stats"`
}

func writeJSON(path string, res *pipeline.Result) error {
	data, err := json.MarshalIndent(mapOutput{
		ID:       res.ID,
		Map:      res.Map,
		Datasets: res.Datasets,
		Stats:    res.Stats,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeArtifacts writes one file per format as base + extension and returns
// the paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	var paths []string
	for _, f := range sink.Formats {
		data, ok := artifacts[string(f)]
		if !ok {
			continue
		}
		path := base + f.Ext()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveResult(ctx context.Context, url string, res *pipeline.Result) error {
	st, err := store.Open(ctx, url)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	rec, err := store.NewRecord(res)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, rec); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

func classCount(res *pipeline.Result) int {
	m := res.Map
	switch {
	case m.Classification != nil:
		return m.Classification.ClassCount
	case len(m.Matrix) > 0:
		return len(m.Matrix) * len(m.Matrix[0])
	case len(m.Categories) > 0:
		return len(m.Categories)
	}
	return 0
}

// firstDatasetPath returns a local dataset path for the describe hint.
func firstDatasetPath(opts pipeline.Options) string {
	for _, role := range opts.Roles() {
		if p := opts.Datasets[role].Path; p != "" {
			return p
		}
	}
	return "<dataset>"
}
