// Package action turns configured word bindings into engine callbacks.
//
// Two actions exist: print renders a text/template line to an output
// writer, and lua runs a sandboxed gopher-lua chunk with the matched word
// in scope.
package action

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dshills/wordevent/internal/config"
	"github.com/dshills/wordevent/internal/word"
)

// ErrUnknownAction is returned for an action name with no implementation.
var ErrUnknownAction = errors.New("unknown action")

// Action reacts to a matched word.
type Action interface {
	// Run performs the action for m.
	Run(m word.Match) error
	// Close releases resources held by the action.
	Close() error
}

// Error wraps a failure building or running an action.
type Error struct {
	Action  string
	Matcher string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s action for %s: %v", e.Action, e.Matcher, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option configures actions.
type Option func(*options)

type options struct {
	out     io.Writer
	outMu   *sync.Mutex
	logger  *slog.Logger
	timeout time.Duration
}

// WithOutput sets where print output and Lua print() go. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLogger sets the logger used for action failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeout bounds each Lua run.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		out:     os.Stdout,
		outMu:   &sync.Mutex{},
		logger:  slog.New(slog.DiscardHandler),
		timeout: DefaultLuaTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the action described by b.
func New(b config.Binding, opts ...Option) (Action, error) {
	return newAction(b, buildOptions(opts))
}

func newAction(b config.Binding, o options) (Action, error) {
	var (
		a   Action
		err error
	)
	switch b.Action {
	case config.ActionPrint, "":
		a, err = newPrint(b.Message, o)
	case config.ActionLua:
		a, err = newLua(b.Script, o)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownAction, b.Action)
	}
	if err != nil {
		return nil, &Error{Action: b.Action, Matcher: b.String(), Err: err}
	}
	return a, nil
}

// Callback adapts a to an engine callback. Failures are logged.
func Callback(a Action, logger *slog.Logger) word.Callback {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(m word.Match) {
		if err := a.Run(m); err != nil {
			logger.Error("action failed", "word", m.Word, "matcher", m.Matcher.String(), "error", err)
		}
	}
}
