package config

import (
	"context"
	"fmt"

	"github.com/dshills/wordevent/internal/config/watcher"
)

// ReloadFunc receives each reloaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(*Config, error)

// Watch reloads the configuration at path whenever the file changes and
// passes the result to fn. It blocks until ctx is done. Load options apply
// to every reload.
func Watch(ctx context.Context, path string, fn ReloadFunc, opts []Option, wopts ...watcher.Option) error {
	w, err := watcher.New(path, wopts...)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	w.OnChange(func(e watcher.Event) {
		if !e.Exists() {
			fn(nil, fmt.Errorf("%w: %s", ErrFileRemoved, e.Path))
			return
		}
		fn(Load(path, opts...))
	})

	return w.Run(ctx)
}
