package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when a pool file contains no data rows.
	ErrNoData = errors.New("no data rows in pool")

	// ErrNoFeatures is returned when the column schema declares no feature
	// columns at all.
	ErrNoFeatures = errors.New("pool should have at least one feature column")

	// ErrAllFeaturesIgnored is returned when the ignore list covers every
	// feature slot.
	ErrAllFeaturesIgnored = errors.New("all features are requested to be ignored")

	// ErrMissingTarget is returned by TargetConverter in regression mode
	// when the label token is a missing-value sentinel.
	ErrMissingTarget = errors.New("missing value is not supported for Label")

	// ErrUnknownRole indicates a column role outside the closed enumeration
	// reached the row parser. This is an internal invariant violation.
	ErrUnknownRole = errors.New("unknown column role")
)

// IgnoredFeatureError indicates an entry of the ignored-features list that
// does not address a feature slot.
type IgnoredFeatureError struct {
	ID           int
	FeatureCount int
}

func (e *IgnoredFeatureError) Error() string {
	return fmt.Sprintf("invalid ignored feature id %d: must be in [0, %d)", e.ID, e.FeatureCount)
}

// UnknownClassError indicates a label token that matches none of the
// configured class names.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class name: %q", e.Class)
}

// SchemaError indicates a malformed column description file.
type SchemaError struct {
	Path   string
	Line   int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column description %s line %d: %s", e.Path, e.Line, e.Reason)
}

// TypeMismatchError indicates a token that cannot be parsed as the type its
// column role requires. Column is 1-based; Row is the absolute 1-based data
// row number; Feature is the feature slot index, or -1 for non-feature
// columns.
type TypeMismatchError struct {
	Role    Role
	Feature int
	Column  int
	Row     int
	Value   string
}

func (e *TypeMismatchError) Error() string {
	if e.Role == RoleNum {
		return fmt.Sprintf("factor %d (column %d) is declared Num but has value %q in row %d that cannot be parsed as float; try correcting the column description file",
			e.Feature, e.Column, e.Value, e.Row)
	}
	return fmt.Sprintf("column %d (%s) has value %q in row %d that cannot be parsed as %s",
		e.Column, e.Role, e.Value, e.Row, roleValueKind(e.Role))
}

func roleValueKind(r Role) string {
	switch r {
	case RoleTimestamp:
		return "unsigned integer"
	default:
		return "float"
	}
}

// EmptyFieldError indicates an empty token in a column whose role requires a
// value.
type EmptyFieldError struct {
	Role   Role
	Column int
	Row    int
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("empty value is not supported for %s (column %d, row %d)", e.Role, e.Column, e.Row)
}

// RowWidthMismatchError indicates a data row whose token count differs from
// the column schema length.
type RowWidthMismatchError struct {
	Expected int
	Found    int
	Row      int
}

func (e *RowWidthMismatchError) Error() string {
	return fmt.Sprintf("wrong number of columns in pool row %d: expected %d, found %d", e.Row, e.Expected, e.Found)
}

// PairIndexError indicates a pairs-file document index outside the pool.
type PairIndexError struct {
	Index    int
	DocCount int
	Line     int
}

func (e *PairIndexError) Error() string {
	return fmt.Sprintf("pairs line %d: document index %d out of range [0, %d)", e.Line, e.Index, e.DocCount)
}
