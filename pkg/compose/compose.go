package compose

import (
	"math"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Source supplies one index per category code. [*stat.Collection] implements it.
type Source interface {
	Role(code string) *stat.Index
}

// Options selects the completeness policy.
type Options struct {
	RequireComplete bool `json:"require_complete,omitempty" toml:"require_complete"`
	ZeroAsMissing   bool `json:"zero_as_missing,omitempty" toml:"zero_as_missing"`
}

// Composition is the normalized breakdown of one region.
type Composition struct {
	// Codes lists the included categories in declared order.
	Codes []string `json:"codes"`
	// Shares maps each included code to its share in [0, 1].
	Shares map[string]float64 `json:"shares"`
	// Total is the un-normalized sum of included values.
	Total float64 `json:"total"`
	// Complete is true when no category was skipped.
	Complete bool `json:"complete"`
}

// Share returns the share of a code. ok is false when the code was skipped.
func (c Composition) Share(code string) (float64, bool) {
	s, ok := c.Shares[code]
	return s, ok
}

// Engine computes compositions over a fixed list of category codes.
type Engine struct {
	codes []string
	src   Source
	opts  Options
}

// New returns an engine. Codes must be non-empty and unique.
func New(codes []string, src Source, opts Options) (*Engine, error) {
	if len(codes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCategories, "composition needs at least one category code")
	}
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c == "" {
			return nil, errors.New(errors.ErrCodeInvalidCategories, "empty category code")
		}
		if seen[c] {
			return nil, errors.New(errors.ErrCodeInvalidCategories, "duplicate category code %q", c)
		}
		seen[c] = true
	}
	return &Engine{codes: append([]string(nil), codes...), src: src, opts: opts}, nil
}

// Codes returns the declared category codes.
func (e *Engine) Codes() []string {
	return append([]string(nil), e.codes...)
}

// Options returns the completeness policy.
func (e *Engine) Options() Options { return e.opts }

func (e *Engine) value(code, region string) (float64, bool) {
	f, ok := e.src.Role(code).Value(region).Float()
	if !ok || f < 0 || math.IsInf(f, 0) {
		return 0, false
	}
	if f == 0 && e.opts.ZeroAsMissing {
		return 0, false
	}
	return f, true
}

// gather returns the included values in declared order and whether the region
// is usable at all.
func (e *Engine) gather(region string) (codes []string, values []float64, sum float64, complete bool) {
	complete = true
	for _, code := range e.codes {
		v, ok := e.value(code, region)
		if !ok {
			if e.opts.RequireComplete {
				return nil, nil, 0, false
			}
			complete = false
			continue
		}
		codes = append(codes, code)
		values = append(values, v)
		sum += v
	}
	return codes, values, sum, complete
}

// Composition computes the shares of a region. ok is false when the region is
// no-data: a required category is missing or the included values sum to zero
// or overflow.
func (e *Engine) Composition(region string) (Composition, bool) {
	codes, values, sum, complete := e.gather(region)
	if sum == 0 || math.IsInf(sum, 0) {
		return Composition{}, false
	}
	shares := make(map[string]float64, len(codes))
	for i, code := range codes {
		shares[code] = values[i] / sum
	}
	return Composition{Codes: codes, Shares: shares, Total: sum, Complete: complete}, true
}

// TotalMagnitude returns the un-normalized sum for a region under the same
// policy as [Engine.Composition].
func (e *Engine) TotalMagnitude(region string) (float64, bool) {
	_, _, sum, _ := e.gather(region)
	if sum == 0 || math.IsInf(sum, 0) {
		return 0, false
	}
	return sum, true
}

// Magnitudes returns the defined totals of the given regions, in order.
func (e *Engine) Magnitudes(regions []string) []float64 {
	out := make([]float64, 0, len(regions))
	for _, r := range regions {
		if t, ok := e.TotalMagnitude(r); ok {
			out = append(out, t)
		}
	}
	return out
}

// SizeScale builds one square-root scale over the totals of all regions, so
// every pie is sized against the same global extent.
func (e *Engine) SizeScale(regions []string, sizeRange [2]float64) (*classify.SizeScale, error) {
	return classify.NewSizeScale(e.Magnitudes(regions), sizeRange)
}
