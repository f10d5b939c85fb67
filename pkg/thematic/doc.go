// Package thematic turns statistical datasets into per-region map styling and
// a legend, for each supported map type:
//
//   - choropleth: one variable, classified into colored classes
//   - proportional-symbol: one variable, sized by a square-root scale
//   - bivariate: two variables, classified on both axes into a color matrix
//   - piechart: several category variables as pies sized by their total
//   - stripe: several category variables as stripe patterns
//
// [Run] validates the [Config] before touching any region, so a broken
// configuration fails fast. Missing data never fails: such regions come back
// with NoData set and the no-data color.
//
// Regions are processed in parallel (bounded by Config.Workers) and the
// output keeps the order of the region list passed in.
package thematic
