package config

import (
	"fmt"

	"github.com/dshills/wordevent/internal/config/loader"
)

// options controls Load.
type options struct {
	fs  loader.FileSystem
	env loader.Loader
}

// Option configures Load.
type Option func(*options)

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithEnv replaces the environment source. A nil loader disables
// environment overrides.
func WithEnv(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// Load reads the file at path, applies environment overrides and validates
// the result. An empty path or a missing file yields the defaults plus any
// environment overrides.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var data map[string]any
	if path != "" {
		fl, err := loader.NewFileLoaderWithFS(o.fs, path)
		if err != nil {
			return nil, err
		}
		if data, err = fl.Load(); err != nil {
			return nil, err
		}
	}

	if o.env != nil {
		env, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, env)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", displayPath(path), err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<defaults>"
	}
	return path
}
