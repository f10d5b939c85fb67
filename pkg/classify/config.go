package classify

import (
	"math"
	"strings"

	"github.com/matzehuels/statmap/pkg/errors"
)

// Method names a classification algorithm.
type Method string

const (
	Quantile      Method = "quantile"
	EqualInterval Method = "equal-interval"
	Threshold     Method = "threshold"
)

// Methods lists the supported methods in display order.
var Methods = []Method{Quantile, EqualInterval, Threshold}

// ParseMethod resolves a method name. "equinter" and "equal" are accepted as
// aliases of equal-interval. The empty string selects [Quantile].
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quantile":
		return Quantile, nil
	case "equal-interval", "equinter", "equal":
		return EqualInterval, nil
	case "threshold":
		return Threshold, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMethod, "unknown classification method: %q", s)
}

// DefaultClassCount is used when a Config leaves ClassCount unset.
const DefaultClassCount = 7

// Config selects a method and its parameters.
type Config struct {
	Method     Method    `json:"method" toml:"method"`
	ClassCount int       `json:"class_count,omitempty" toml:"class_count"`
	Thresholds []float64 `json:"thresholds,omitempty" toml:"thresholds"`
	Nice       bool      `json:"nice,omitempty" toml:"nice"`
}

// Validate reports misconfiguration. ClassCount is ignored for [Threshold],
// whose class count derives from the thresholds.
func (c Config) Validate() error {
	m, err := ParseMethod(string(c.Method))
	if err != nil {
		return err
	}
	if m == Threshold {
		return validateThresholds(c.Thresholds)
	}
	if c.ClassCount <= 0 {
		return errors.New(errors.ErrCodeInvalidClassCount, "class count must be positive, got %d", c.ClassCount)
	}
	return nil
}

func validateThresholds(ts []float64) error {
	if len(ts) == 0 {
		return errors.New(errors.ErrCodeInvalidThresholds, "threshold method needs at least one threshold")
	}
	for i, t := range ts {
		if math.IsNaN(t) {
			return errors.New(errors.ErrCodeInvalidThresholds, "threshold %d is NaN", i)
		}
		if i > 0 && t <= ts[i-1] {
			return errors.New(errors.ErrCodeInvalidThresholds,
				"thresholds must be strictly ascending: %v then %v", ts[i-1], t)
		}
	}
	return nil
}
