package loader

import (
	"os"
	"strings"
)

// DefaultPrefix is the environment variable prefix for wordevent settings.
const DefaultPrefix = "WORDEVENT_"

// EnvLoader loads configuration from environment variables.
// Values are kept as strings; the config package converts them.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "WORDEVENT_")
	mapping map[string]string // Variable name without prefix -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "WORDEVENT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables through lookup.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	if lookup != nil {
		l.lookup = lookup
	}
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"DIGIT_INTERVAL": "engine.digit_interval",
		"EVENT_TYPE":     "engine.event_type",
		"ACCEPT":         "engine.accept",
		"ACCEPT_CHARS":   "engine.accept_chars",
		"LOG_LEVEL":      "logging.level",
	}
}

// Load reads the mapped environment variables and returns a configuration
// map. Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for name, path := range l.mapping {
		if val, ok := l.lookup(l.prefix + name); ok {
			setByPath(config, path, val)
		}
	}
	return config, nil
}

// AddMapping maps an additional variable (without prefix) to a config path.
func (l *EnvLoader) AddMapping(name, configPath string) {
	l.mapping[name] = configPath
}

// Variables returns the full names of every recognized variable.
func (l *EnvLoader) Variables() []string {
	names := make([]string, 0, len(l.mapping))
	for name := range l.mapping {
		names = append(names, l.prefix+name)
	}
	return names
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
