// Package dictionary maps completed words to registered values.
//
// Lookups are two-tier: an exact entry keyed by the word text always wins;
// otherwise pattern entries (regular expressions and globs) are tested in the
// order they were first registered and the first full match wins.
package dictionary

import (
	"sort"
	"sync"
)

type entry[V any] struct {
	matcher Matcher
	value   V
}

// Dictionary holds (matcher, value) registrations. It is safe for concurrent use.
type Dictionary[V any] struct {
	mu sync.RWMutex

	exact map[string]V

	// patterns indexes pattern entries by normalized key; order keeps
	// first-registration order for precedence.
	patterns map[string]*entry[V]
	order    []*entry[V]
}

// New creates an empty dictionary.
func New[V any]() *Dictionary[V] {
	return &Dictionary[V]{
		exact:    make(map[string]V),
		patterns: make(map[string]*entry[V]),
	}
}

// Add registers value for m. Registering the same matcher again replaces the
// value; a re-registered pattern keeps its original precedence.
func (d *Dictionary[V]) Add(m Matcher, value V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addLocked(m, value)
}

// AddAll registers matchers[i] with values[i]. If the slices differ in
// length nothing is registered and ErrLengthMismatch is returned.
func (d *Dictionary[V]) AddAll(matchers []Matcher, values []V) error {
	if len(matchers) != len(values) {
		return ErrLengthMismatch
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, m := range matchers {
		d.addLocked(m, values[i])
	}
	return nil
}

// Replace atomically swaps every registration for the given pairs.
func (d *Dictionary[V]) Replace(matchers []Matcher, values []V) error {
	if len(matchers) != len(values) {
		return ErrLengthMismatch
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearLocked()
	for i, m := range matchers {
		d.addLocked(m, values[i])
	}
	return nil
}

// Remove deletes the registrations for the given matchers and returns how
// many existed. Absent matchers are ignored.
func (d *Dictionary[V]) Remove(matchers ...Matcher) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for _, m := range matchers {
		if !m.IsPattern() {
			if _, ok := d.exact[m.source]; ok {
				delete(d.exact, m.source)
				removed++
			}
			continue
		}

		e, ok := d.patterns[m.Key()]
		if !ok {
			continue
		}
		delete(d.patterns, m.Key())
		for i, o := range d.order {
			if o == e {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
		removed++
	}
	return removed
}

// Clear removes every registration.
func (d *Dictionary[V]) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearLocked()
}

// Resolve returns the value registered for word.
func (d *Dictionary[V]) Resolve(word string) (V, bool) {
	_, v, ok := d.Lookup(word)
	return v, ok
}

// Lookup is like Resolve but also returns the matcher that selected the value.
func (d *Dictionary[V]) Lookup(word string) (Matcher, V, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if v, ok := d.exact[word]; ok {
		return Exact(word), v, true
	}

	for _, e := range d.order {
		if e.matcher.Match(word) {
			return e.matcher, e.value, true
		}
	}

	var zero V
	return Matcher{}, zero, false
}

// Len returns the number of registrations.
func (d *Dictionary[V]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.exact) + len(d.order)
}

// Matchers lists the registered matchers: exact words sorted, then patterns
// in precedence order.
func (d *Dictionary[V]) Matchers() []Matcher {
	d.mu.RLock()
	defer d.mu.RUnlock()

	words := make([]string, 0, len(d.exact))
	for w := range d.exact {
		words = append(words, w)
	}
	sort.Strings(words)

	out := make([]Matcher, 0, len(words)+len(d.order))
	for _, w := range words {
		out = append(out, Exact(w))
	}
	for _, e := range d.order {
		out = append(out, e.matcher)
	}
	return out
}

func (d *Dictionary[V]) addLocked(m Matcher, value V) {
	if !m.IsPattern() {
		d.exact[m.source] = value
		return
	}

	if e, ok := d.patterns[m.Key()]; ok {
		e.value = value
		return
	}
	e := &entry[V]{matcher: m, value: value}
	d.patterns[m.Key()] = e
	d.order = append(d.order, e)
}

func (d *Dictionary[V]) clearLocked() {
	d.exact = make(map[string]V)
	d.patterns = make(map[string]*entry[V])
	d.order = nil
}
