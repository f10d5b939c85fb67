// Package pkg provides the libraries behind statmap, a classification engine
// for thematic maps of regional statistics.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Statistics: [stat] (values and per-region indexes), [source]
//     (JSON, JSON-stat, CSV and the Eurostat API)
//  2. Classification: [classify] (quantile, equal-interval, threshold and
//     size scales), [bivariate] (two-variable color matrices), [compose]
//     (pie and stripe compositions), [palette] (color schemes)
//  3. Output: [thematic] (per-map-type engines), [legend] (legend geometry),
//     [render/sink] (SVG, JSON, PNG and PDF legends)
//  4. Infrastructure: [pipeline] (load → classify → render with caching),
//     [cache], [store], [api], [httputil], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / JSON-stat / Eurostat
//	         ↓
//	    [source] package (decode into stat.Index per role)
//	         ↓
//	    [thematic] package (classify every region)
//	         ↓
//	    [legend] package (legend geometry)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Classify a dataset into a choropleth:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/statmap/pkg/pipeline"
//	)
//
//	opts, _ := pipeline.LoadFile("density.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), opts)
//	if err != nil {
//	    return err
//	}
//	for _, r := range res.Map.Regions {
//	    fmt.Println(r.ID, r.Color)
//	}
package pkg
