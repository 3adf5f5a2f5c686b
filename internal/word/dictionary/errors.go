package dictionary

import (
	"errors"
	"fmt"
)

// Sentinel errors for dictionary registration.
var (
	// ErrLengthMismatch is returned when paired matcher and value lists differ in length.
	ErrLengthMismatch = errors.New("matcher and callback counts differ")

	// ErrInvalidMatcher is returned for malformed or empty matchers.
	ErrInvalidMatcher = errors.New("invalid matcher")
)

// MatcherError describes a matcher that could not be built.
type MatcherError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *MatcherError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s matcher %q: %v", e.Kind, e.Source, e.Err)
}

func (e *MatcherError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
