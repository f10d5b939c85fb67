// Package pipeline provides the map classification pipeline for statmap.
//
// This package implements the complete load → classify → render pipeline
// used by the CLI and the HTTP API, so both entry points share one set of
// defaults, one validation path and one caching strategy.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Resolve every dataset role from files, inline documents or the
//     Eurostat API into a [stat.Collection]
//  2. Classify: Run the thematic engine of the map type over the region
//     universe, producing per-region styling and legend geometry
//  3. Render: Draw the legend in the requested formats (SVG, PNG, PDF, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.LoadFile("density.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	data, datasets, err := runner.Load(ctx, opts)
//	m, hash, hit, err := runner.Classify(ctx, opts, data, hashes)
//	artifacts, hit, err := runner.Render(ctx, opts, m.Legend, hash)
package pipeline

import (
	"time"

	"github.com/matzehuels/statmap/pkg/render/sink"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMapType is the map type when none is configured.
	DefaultMapType = thematic.Choropleth

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = sink.FormatSVG
)

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run; stores use it as primary key.
	ID string `json:"id"`

	// Map is the classified map: per-region styling plus legend geometry.
	Map *thematic.Result `json:"map"`

	// MapHash is the content hash of the classified map.
	MapHash string `json:"map_hash"`

	// Datasets describes the loaded dataset of each role.
	Datasets map[string]DatasetInfo `json:"datasets"`

	// Artifacts contains rendered legends keyed by format.
	Artifacts map[string][]byte `json:"-"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
	CreatedAt time.Time `json:"created_at"`
}

// DatasetInfo describes one loaded dataset.
type DatasetInfo struct {
	Source  string `json:"source"`
	Label   string `json:"label,omitempty"`
	Time    string `json:"time,omitempty"`
	Regions int    `json:"regions"`
	Hash    string `json:"hash"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Regions      int           `json:"regions"`
	NoData       int           `json:"no_data"`
	LoadTime     time.Duration `json:"load_time"`
	ClassifyTime time.Duration `json:"classify_time"`
	RenderTime   time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ClassifyHit bool `json:"classify_hit"` // Whether the classified map came from cache
	RenderHit   bool `json:"render_hit"`   // Whether all artifacts came from cache
}
