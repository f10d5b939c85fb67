// Package classify partitions numeric values into visual classes.
//
// A [Classifier] is built once from a domain (the defined numeric values of a
// [stat.Index]) and a [Config]. It is immutable afterwards and safe to share
// across goroutines.
//
// # Methods
//
//   - [Quantile]: nearest-rank quantiles. Class i covers (b[i-1], b[i]], so a
//     value equal to a boundary falls in the lower class.
//   - [EqualInterval]: min + k*(max-min)/n boundaries, optionally rounded to
//     1/2/5 × 10^p increments. Class i covers [b[i-1], b[i]).
//   - [Threshold]: caller-supplied ascending thresholds, used verbatim. Class i
//     covers [t[i-1], t[i]), except that the last threshold itself belongs to
//     the class below it; the last class (t[n-1], +Inf) is unbounded above.
//     With thresholds [50 75 100]: 49→0, 50→1, 100→2, 1000→3.
//
// Classes are numbered 0..ClassCount-1 in ascending value order. Display order
// (ascending or descending legends) never changes the index.
//
// # Degenerate Input
//
// Missing data and degenerate domains are never errors. An empty domain yields
// a single class; a domain of one distinct value maps everything to class 0.
// Misconfiguration (non-positive class count, unordered thresholds, unknown
// method) fails at [Build] with a coded error from pkg/errors.
//
// [SizeScale] is the continuous square-root scale used for proportional symbols
// and pie sizes.
package classify
