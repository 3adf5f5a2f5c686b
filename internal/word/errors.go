package word

import (
	"errors"

	"github.com/dshills/wordevent/internal/word/dictionary"
)

// Sentinel errors for engine configuration and registration.
var (
	// ErrNoSource is returned when the configuration has no input source.
	ErrNoSource = errors.New("no input source configured")

	// ErrInvalidInterval is returned for a negative digit interval.
	ErrInvalidInterval = errors.New("digit interval must not be negative")

	// ErrNilCallback is returned when registering a nil callback.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrLengthMismatch is returned when matcher and callback lists differ in length.
	ErrLengthMismatch = dictionary.ErrLengthMismatch
)
