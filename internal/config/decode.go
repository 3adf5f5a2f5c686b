package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/wordevent/internal/input/key"
)

// decode applies a merged configuration map on top of the defaults.
func decode(data map[string]any) (*Config, error) {
	cfg := Default()
	var errs []error

	for name, val := range data {
		switch name {
		case "engine":
			errs = append(errs, decodeSection(name, val, cfg.decodeEngineField)...)
		case "logging":
			errs = append(errs, decodeSection(name, val, cfg.decodeLoggingField)...)
		case "words":
			errs = append(errs, cfg.decodeWords(val)...)
		default:
			errs = append(errs, invalid(name, ErrCodeUnknownSetting, nil, "unknown section"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeSection walks a table in sorted key order so errors are stable.
func decodeSection(path string, val any, field func(path, name string, v any) error) []error {
	table, ok := val.(map[string]any)
	if !ok {
		return []error{invalid(path, ErrCodeTypeMismatch, val, "expected a table, got %T", val)}
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		if err := field(path+"."+name, name, table[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Config) decodeEngineField(path, name string, v any) error {
	switch name {
	case "digit_interval":
		d, err := asDuration(path, v)
		if err != nil {
			return err
		}
		c.Engine.DigitInterval = d
	case "event_type":
		s, err := asString(path, v)
		if err != nil {
			return err
		}
		t, err := key.ParseType(s)
		if err != nil {
			return invalid(path, ErrCodeInvalidEnum, s, "must be \"key pressed\" or \"key released\"")
		}
		c.Engine.EventType = t
	case "accept":
		s, err := asString(path, v)
		if err != nil {
			return err
		}
		c.Engine.Accept = s
	case "accept_chars":
		s, err := asString(path, v)
		if err != nil {
			return err
		}
		c.Engine.AcceptChars = s
	default:
		return invalid(path, ErrCodeUnknownSetting, nil, "unknown setting")
	}
	return nil
}

func (c *Config) decodeLoggingField(path, name string, v any) error {
	if name != "level" {
		return invalid(path, ErrCodeUnknownSetting, nil, "unknown setting")
	}
	s, err := asString(path, v)
	if err != nil {
		return err
	}
	c.Logging.Level = s
	return nil
}

func (c *Config) decodeWords(val any) []error {
	list, ok := val.([]any)
	if !ok {
		return []error{invalid("words", ErrCodeTypeMismatch, val, "expected a list, got %T", val)}
	}

	var errs []error
	for i, item := range list {
		b := Binding{Action: ActionPrint}
		errs = append(errs, decodeSection(fmt.Sprintf("words[%d]", i), item, b.decodeField)...)
		c.Words = append(c.Words, b)
	}
	return errs
}

func (b *Binding) decodeField(path, name string, v any) error {
	var dst *string
	switch name {
	case "word":
		dst = &b.Word
	case "pattern":
		dst = &b.Pattern
	case "glob":
		dst = &b.Glob
	case "action":
		dst = &b.Action
	case "message":
		dst = &b.Message
	case "script":
		dst = &b.Script
	default:
		return invalid(path, ErrCodeUnknownSetting, nil, "unknown setting")
	}

	s, err := asString(path, v)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(path, ErrCodeTypeMismatch, v, "expected a string, got %T", v)
	}
	return s, nil
}

// asDuration accepts a Go duration string or a number of milliseconds.
func asDuration(path string, v any) (time.Duration, error) {
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Millisecond, nil
	case int64:
		return time.Duration(n) * time.Millisecond, nil
	case uint64:
		if n > math.MaxInt64/uint64(time.Millisecond) {
			return 0, invalid(path, ErrCodeOutOfRange, v, "too large")
		}
		return time.Duration(n) * time.Millisecond, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalid(path, ErrCodeTypeMismatch, v, "milliseconds must be a whole number")
		}
		return time.Duration(n) * time.Millisecond, nil
	case time.Duration:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, invalid(path, ErrCodeTypeMismatch, v, "not a duration")
		}
		return d, nil
	default:
		return 0, invalid(path, ErrCodeTypeMismatch, v, "expected a duration, got %T", v)
	}
}
