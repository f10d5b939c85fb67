package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/statmap/pkg/cache"
	"github.com/matzehuels/statmap/pkg/httputil"
	"github.com/matzehuels/statmap/pkg/legend"
	"github.com/matzehuels/statmap/pkg/observability"
	"github.com/matzehuels/statmap/pkg/render/sink"
	"github.com/matzehuels/statmap/pkg/source"
	"github.com/matzehuels/statmap/pkg/stat"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its cache, loader and logger; it does
// not store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Loader *source.Loader
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Remote datasets are fetched through the same cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	client := httputil.NewClient(
		httputil.WithCache(c, cache.DatasetTTL),
		httputil.WithKeyer(keyer),
	)
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Loader: source.NewLoader(source.NewFetcher(client, source.WithDatasetCache(c))),
	}
}

// Execute runs the complete load → classify → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ID:        uuid.NewString(),
		Datasets:  make(map[string]DatasetInfo),
		CreatedAt: time.Now().UTC(),
	}

	// Stage 1: Load
	loadStart := time.Now()
	data, infos, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Datasets = infos
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded datasets",
		"roles", len(infos),
		"duration", result.Stats.LoadTime)

	// Stage 2: Classify
	classifyStart := time.Now()
	m, hash, hit, err := r.Classify(ctx, opts, data, datasetHashes(infos))
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	result.Map = m
	result.MapHash = hash
	result.Stats.ClassifyTime = time.Since(classifyStart)
	result.Stats.Regions = len(m.Regions)
	result.Stats.NoData = m.NoData
	result.CacheInfo.ClassifyHit = hit

	r.Logger.Info("classified regions",
		"map_type", m.MapType,
		"regions", len(m.Regions),
		"classes", classCount(m),
		"no_data", m.NoData,
		"duration", result.Stats.ClassifyTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, opts, m.Legend, hash)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered legend",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load resolves every configured dataset role concurrently.
func (r *Runner) Load(ctx context.Context, opts Options) (*stat.Collection, map[string]DatasetInfo, error) {
	roles := opts.Roles()
	datasets := make([]*source.Dataset, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		spec := opts.Datasets[role]
		g.Go(func() error {
			hooks := observability.Pipeline()
			hooks.OnLoadStart(gctx, role, spec.String())
			start := time.Now()
			ds, err := r.Loader.Load(gctx, spec)
			n := 0
			if ds != nil {
				n = ds.Index.Len()
			}
			hooks.OnLoadComplete(gctx, role, n, time.Since(start), err)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", role, err)
			}
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	data := stat.NewCollection()
	infos := make(map[string]DatasetInfo, len(roles))
	for i, role := range roles {
		ds := datasets[i]
		data.Put(role, ds.Index)
		infos[role] = DatasetInfo{
			Source:  ds.Source,
			Label:   ds.Label,
			Time:    ds.Time,
			Regions: ds.Index.Len(),
			Hash:    IndexHash(ds.Index),
		}
		r.Logger.Debug("loaded dataset", "role", role, "source", ds.Source, "regions", ds.Index.Len())
	}
	return data, infos, nil
}

// Classify runs the thematic engine with result caching. hashes identify the
// loaded datasets; the returned hash identifies the classified map.
func (r *Runner) Classify(ctx context.Context, opts Options, data *stat.Collection, hashes []string) (*thematic.Result, string, bool, error) {
	cfg, err := opts.Thematic()
	if err != nil {
		return nil, "", false, err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, "", false, err
	}
	regionsJSON, _ := json.Marshal(opts.Regions)
	key := r.Keyer.ResultKey(append(slices.Clone(hashes), "regions:"+cache.Hash(regionsJSON)), cache.ResultKeyOpts{
		MapType: string(cfg.MapType),
		Options: string(cfgJSON),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached thematic.Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return &cached, cache.Hash(raw), true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	hooks := observability.Pipeline()
	hooks.OnClassifyStart(ctx, string(cfg.MapType), len(opts.Regions))
	start := time.Now()
	m, err := thematic.Run(ctx, cfg, data, opts.Regions)
	noData := 0
	if m != nil {
		noData = m.NoData
	}
	hooks.OnClassifyComplete(ctx, string(cfg.MapType), noData, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, "", false, err
	}
	if err := r.Cache.Set(ctx, key, raw, cache.ResultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "result", len(raw))
	}
	return m, cache.Hash(raw), false, nil
}

// Render draws the legend in every requested format with artifact caching.
// The bool reports whether every artifact came from cache.
func (r *Runner) Render(ctx context.Context, opts Options, g legend.Geometry, mapHash string) (map[string][]byte, bool, error) {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{string(DefaultFormat)}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(formats))
		allHit    = true
	)
	svgOpts := opts.svgOptions()
	grp, gctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		grp.Go(func() error {
			data, hit, err := r.renderFormat(gctx, sink.Format(f), g, mapHash, svgOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			mu.Lock()
			defer mu.Unlock()
			artifacts[f] = data
			allHit = allHit && hit
			return nil
		})
	}
	err := grp.Wait()
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(ctx context.Context, f sink.Format, g legend.Geometry, mapHash string, svgOpts []sink.SVGOption) ([]byte, bool, error) {
	var key string
	if mapHash != "" {
		key = r.Keyer.ArtifactKey(mapHash, cache.ArtifactKeyOpts{Format: string(f), Layout: string(g.Layout)})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := sink.Render(ctx, f, g, svgOpts...)
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, false, nil
}

// IndexHash is the content hash of an index: region order, values and
// statuses.
func IndexHash(ix *stat.Index) string {
	type entry struct {
		ID string `json:"id"`
		stat.Stat
	}
	entries := make([]entry, 0, ix.Len())
	for _, id := range ix.IDs() {
		s, _ := ix.Get(id)
		entries = append(entries, entry{ID: id, Stat: s})
	}
	data, _ := json.Marshal(entries)
	return cache.Hash(data)
}

// datasetHashes returns "role:hash" pairs in role order.
func datasetHashes(infos map[string]DatasetInfo) []string {
	out := make([]string, 0, len(infos))
	for _, role := range sortedKeys(infos) {
		out = append(out, role+":"+infos[role].Hash)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func classCount(m *thematic.Result) int {
	switch {
	case m.Classification != nil:
		return m.Classification.ClassCount
	case len(m.Matrix) > 0:
		return len(m.Matrix) * len(m.Matrix[0])
	default:
		return len(m.Categories)
	}
}
