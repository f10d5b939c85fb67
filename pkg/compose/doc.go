// Package compose computes per-region category compositions.
//
// An [Engine] reads one value per category code for a region, in declared
// order, and normalizes them into shares that sum to 1. The same
// [Composition] drives pie slices ([Pie]) and stripe widths ([Stripes]).
//
// # Missing Data Policy
//
// A category whose value is missing, categorical or negative is "missing".
// With RequireComplete, one missing category makes the whole region no-data;
// otherwise the category is skipped and absent from the shares.
//
// Zero is a valid value: it is included with share 0. Options.ZeroAsMissing
// switches to treating zero like a missing value.
//
// A region whose included values sum to zero is no-data. No-data is reported
// through an ok=false return, never as an error.
package compose
