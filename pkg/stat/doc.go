// Package stat holds per-region statistical values.
//
// An [Index] maps region identifiers to [Stat] pairs (value and status flag) for
// one dataset. A [Collection] groups several indexes by role name so that maps
// combining several datasets (bivariate, proportional pies, stripes) can look up
// "v1", "size" or a category code uniformly.
//
// # Missing Data
//
// [Value] is an explicit sum type: a value is a [Number], a [Category], or
// [Missing]. Absent regions, NaN and empty strings all read as Missing. Zero is a
// defined number and is never confused with Missing.
//
// Numeric coercion happens once, at ingestion, through [Parse]: a raw value
// that parses as a number is stored as a number, otherwise it is kept as a
// category string.
//
// # Lifecycle
//
// Indexes are populated once per retrieval and then only read. They are safe for
// concurrent reads; writers must not overlap with readers. A new retrieval
// replaces the whole index rather than merging into it.
package stat
