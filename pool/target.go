package pool

import (
	"fmt"
	"strconv"
)

// IsNaNValue reports whether the token is one of the recognized
// missing-value sentinels. Matching is exact over a fixed set, not a general
// case-insensitive comparison.
func IsNaNValue(s string) bool {
	switch s {
	case "nan", "NaN", "NAN", "NA", "Na", "na":
		return true
	}
	return false
}

// TargetConverter maps a label token to a float target. With class names
// configured it returns the index of the first exact match; without, the
// token is parsed as a float and missing-value sentinels are rejected.
//
// Label conversion is centralized here so that every caller applies the same
// class-matching and missing-value policy.
type TargetConverter struct {
	classNames []string
}

// NewTargetConverter creates a converter. An empty classNames slice selects
// regression mode.
func NewTargetConverter(classNames []string) *TargetConverter {
	return &TargetConverter{classNames: classNames}
}

// Convert maps one label token to its numeric target value.
func (c *TargetConverter) Convert(token string) (float32, error) {
	if len(c.classNames) == 0 {
		if IsNaNValue(token) {
			return 0, fmt.Errorf("%w: %q", ErrMissingTarget, token)
		}
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return 0, fmt.Errorf("failed to parse label %q as float: %w", token, err)
		}
		return float32(v), nil
	}

	for i, name := range c.classNames {
		if name == token {
			return float32(i), nil
		}
	}
	return 0, &UnknownClassError{Class: token}
}
