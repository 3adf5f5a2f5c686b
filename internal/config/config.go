package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

// Action names accepted in bindings.
const (
	ActionPrint = "print"
	ActionLua   = "lua"
)

// Config is the decoded configuration.
type Config struct {
	Engine  EngineSettings
	Logging LoggingSettings
	Words   []Binding

	// Path is the file the configuration was loaded from, if any.
	Path string
}

// EngineSettings configures word accumulation.
type EngineSettings struct {
	DigitInterval time.Duration
	EventType     key.Type
	Accept        string
	AcceptChars   string
}

// LoggingSettings configures the log output.
type LoggingSettings struct {
	Level string
}

// Binding pairs one matcher with an action.
type Binding struct {
	Word    string
	Pattern string
	Glob    string
	Action  string
	Message string
	Script  string
}

// Default returns the built-in configuration with no bindings.
func Default() *Config {
	return &Config{
		Engine: EngineSettings{
			DigitInterval: word.DefaultDigitInterval,
			EventType:     key.TypeReleased,
			Accept:        "alnum",
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// Matcher builds the dictionary matcher for the binding.
func (b Binding) Matcher() (dictionary.Matcher, error) {
	switch {
	case b.Word != "":
		return dictionary.Exact(b.Word), nil
	case b.Pattern != "":
		return dictionary.Pattern(b.Pattern)
	case b.Glob != "":
		return dictionary.Glob(b.Glob)
	default:
		return dictionary.Matcher{}, dictionary.ErrInvalidMatcher
	}
}

// String describes the binding's matcher.
func (b Binding) String() string {
	m, err := b.Matcher()
	if err != nil {
		return "<invalid>"
	}
	return m.String()
}

func (b Binding) matcherFields() int {
	n := 0
	for _, s := range []string{b.Word, b.Pattern, b.Glob} {
		if s != "" {
			n++
		}
	}
	return n
}

// Predicate returns the acceptance predicate named by the engine settings,
// widened by AcceptChars.
func (c *Config) Predicate() (key.Predicate, error) {
	pred, err := key.PredicateByName(c.Engine.Accept)
	if err != nil {
		return nil, err
	}
	if c.Engine.AcceptChars != "" {
		pred = key.AnyOf(pred, key.AcceptRunes(c.Engine.AcceptChars))
	}
	return pred, nil
}

// EngineConfig builds the engine configuration for src.
func (c *Config) EngineConfig(src source.Source) (word.Config, error) {
	pred, err := c.Predicate()
	if err != nil {
		return word.Config{}, err
	}
	return word.Config{
		Source:        src,
		DigitInterval: c.Engine.DigitInterval,
		EventType:     c.Engine.EventType,
		Accept:        pred,
	}, nil
}

// LogLevel returns the slog level for the logging settings.
func (c *Config) LogLevel() slog.Level {
	level, _ := ParseLevel(c.Logging.Level)
	return level
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
