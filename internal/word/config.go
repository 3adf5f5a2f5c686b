package word

import (
	"log/slog"
	"time"

	"github.com/dshills/wordevent/internal/clock"
	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
)

// DefaultDigitInterval is the quiet period used when none is configured.
const DefaultDigitInterval = 500 * time.Millisecond

// Config configures an Engine. It is fixed once the engine is built.
type Config struct {
	// Source delivers key events. Required.
	Source source.Source

	// DigitInterval is the maximum gap between two events of one word and
	// the quiet period after which a word is complete.
	// Zero selects DefaultDigitInterval.
	DigitInterval time.Duration

	// EventType is the notification type to subscribe to.
	// Default: key.TypeReleased.
	EventType key.Type

	// Accept decides which events contribute characters. Events without a
	// rune never contribute and are counted as rejected, even when Accept
	// returns true; they still keep the word open.
	// Default: key.AcceptAlphanumeric.
	Accept key.Predicate
}

// DefaultConfig returns a configuration with sensible defaults for src.
func DefaultConfig(src source.Source) Config {
	return Config{
		Source:        src,
		DigitInterval: DefaultDigitInterval,
		EventType:     key.TypeReleased,
		Accept:        key.AcceptAlphanumeric,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Source == nil {
		return ErrNoSource
	}
	if c.DigitInterval < 0 {
		return ErrInvalidInterval
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.DigitInterval == 0 {
		c.DigitInterval = DefaultDigitInterval
	}
	if c.EventType == "" {
		c.EventType = key.TypeReleased
	}
	if c.Accept == nil {
		c.Accept = key.AcceptAlphanumeric
	}
	return c
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source. Tests use a clock.Fake.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithCompletionHook sets a hook observing every completed non-empty word,
// matched or not. It runs before the matched callback.
func WithCompletionHook(hook CompletionHook) Option {
	return func(e *Engine) {
		e.onComplete = hook
	}
}
