// Package legend computes legend layouts without drawing anything.
//
// A [Builder] turns classifier or composition state into a [Geometry]: the
// legend box size plus one positioned [Element] per swatch, label, separator,
// circle or frame. Renderers (see pkg/render/sink) only draw what the geometry
// says, so map and legend can never disagree on class boundaries.
//
// Four layouts are supported:
//
//   - [Builder.Ladder]: one row per class with separator lines and boundary
//     labels, for choropleth maps.
//   - [Builder.Matrix]: an n1×n2 grid of bivariate classes.
//   - [Builder.SizeLadder]: stacked circles for proportional symbols, sized
//     by the same scale used on the map.
//   - [Builder.Composition]: one swatch per category, optionally below a
//     size ladder, for pie chart and stripe maps.
//
// Text metrics are delegated to a [TextMeasurer]. Layout is pure: the same
// inputs always yield the same geometry.
package legend
