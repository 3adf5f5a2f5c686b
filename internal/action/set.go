package action

import (
	"errors"

	"github.com/dshills/wordevent/internal/config"
	"github.com/dshills/wordevent/internal/word"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

// Set is the group of actions built from one configuration.
type Set struct {
	actions  []Action
	matchers []dictionary.Matcher
}

// Build creates one action per binding. Nothing is kept if any binding fails.
func Build(bindings []config.Binding, opts ...Option) (*Set, []word.Callback, error) {
	o := buildOptions(opts)
	s := &Set{}
	cbs := make([]word.Callback, 0, len(bindings))

	for _, b := range bindings {
		m, err := b.Matcher()
		if err != nil {
			_ = s.Close()
			return nil, nil, &Error{Action: b.Action, Matcher: b.String(), Err: err}
		}
		a, err := newAction(b, o)
		if err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		s.actions = append(s.actions, a)
		s.matchers = append(s.matchers, m)
		cbs = append(cbs, Callback(a, o.logger))
	}
	return s, cbs, nil
}

// Bind builds the bindings and replaces every registration in dict with
// them in a single step.
func Bind(dict *dictionary.Dictionary[word.Callback], bindings []config.Binding, opts ...Option) (*Set, error) {
	s, cbs, err := Build(bindings, opts...)
	if err != nil {
		return nil, err
	}
	if err := dict.Replace(s.matchers, cbs); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Matchers returns the matchers in binding order.
func (s *Set) Matchers() []dictionary.Matcher {
	return s.matchers
}

// Len returns the number of actions.
func (s *Set) Len() int {
	return len(s.actions)
}

// Close closes every action.
func (s *Set) Close() error {
	var errs []error
	for _, a := range s.actions {
		errs = append(errs, a.Close())
	}
	return errors.Join(errs...)
}
