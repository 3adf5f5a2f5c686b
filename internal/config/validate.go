package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration and returns every problem found,
// joined. Each problem is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error

	if c.Engine.DigitInterval <= 0 {
		errs = append(errs, invalid("engine.digit_interval", ErrCodeOutOfRange,
			c.Engine.DigitInterval, "must be positive"))
	}
	if c.Engine.EventType == "" {
		errs = append(errs, invalid("engine.event_type", ErrCodeInvalidEnum,
			nil, "must not be empty"))
	}
	if _, err := c.Predicate(); err != nil {
		errs = append(errs, invalid("engine.accept", ErrCodeInvalidEnum,
			c.Engine.Accept, "must be one of alnum, letters, digits, printable"))
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, invalid("logging.level", ErrCodeInvalidEnum,
			c.Logging.Level, "must be one of debug, info, warn, error"))
	}

	for i, b := range c.Words {
		errs = append(errs, b.validate(fmt.Sprintf("words[%d]", i))...)
	}

	return errors.Join(errs...)
}

func (b Binding) validate(path string) []error {
	var errs []error

	switch b.matcherFields() {
	case 0:
		errs = append(errs, invalid(path, ErrCodeInvalidMatcher, nil,
			"needs one of word, pattern, glob"))
	case 1:
		if _, err := b.Matcher(); err != nil {
			errs = append(errs, invalid(path, ErrCodeInvalidMatcher, nil, "%v", err))
		}
	default:
		errs = append(errs, invalid(path, ErrCodeInvalidMatcher, nil,
			"word, pattern and glob are mutually exclusive"))
	}

	switch b.Action {
	case ActionPrint:
	case ActionLua:
		if b.Script == "" {
			errs = append(errs, invalid(path+".script", ErrCodeTypeMismatch, nil,
				"lua action needs a script"))
		}
	default:
		errs = append(errs, invalid(path+".action", ErrCodeInvalidEnum, b.Action,
			"must be print or lua"))
	}

	return errs
}
