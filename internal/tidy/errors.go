package tidy

import (
	"errors"
	"fmt"
)

var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrMissingDependency = errors.New("missing table driver")
	ErrMissingColumn     = errors.New("missing required column")
	ErrMalformedValue    = errors.New("malformed value")
	ErrInvalidYearRange  = errors.New("invalid year range")
)

// MalformedValueError reports a year cell that is neither an absent-value
// marker nor a finite decimal number.
type MalformedValueError struct {
	CountryCode string
	Year        int
	Raw         string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("%s: country %s year %d: %q is not a number",
		ErrMalformedValue, e.CountryCode, e.Year, e.Raw)
}

func (e *MalformedValueError) Is(target error) bool { return target == ErrMalformedValue }
