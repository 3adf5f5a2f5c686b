package dictionary

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind distinguishes exact matchers from the pattern kinds.
type Kind uint8

const (
	// KindExact matches the word text literally.
	KindExact Kind = iota
	// KindRegexp matches the whole word against a regular expression.
	KindRegexp
	// KindGlob matches the whole word against a glob pattern.
	KindGlob
)

// String returns the kind name used in normalized keys.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRegexp:
		return "regexp"
	case KindGlob:
		return "glob"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Matcher decides whether a completed word selects a dictionary entry.
// Build matchers with Exact, Pattern, Regexp or Glob.
type Matcher struct {
	kind   Kind
	source string
	re     *regexp.Regexp
}

// Exact returns a matcher for the literal word s.
func Exact(s string) Matcher {
	return Matcher{kind: KindExact, source: s}
}

// Pattern compiles expr as a regular expression that must match the whole
// word. "c.t" matches "cat" but not "scatter".
func Pattern(expr string) (Matcher, error) {
	if expr == "" {
		return Matcher{}, &MatcherError{Kind: KindRegexp, Source: expr, Err: ErrInvalidMatcher}
	}
	// The bare expression must compile on its own; otherwise text such as
	// "a)|(b" would close the group and escape the anchors.
	if _, err := regexp.Compile(expr); err != nil {
		return Matcher{}, &MatcherError{Kind: KindRegexp, Source: expr, Err: err}
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return Matcher{}, &MatcherError{Kind: KindRegexp, Source: expr, Err: err}
	}
	return Matcher{kind: KindRegexp, source: expr, re: re}, nil
}

// MustPattern is like Pattern but panics on error.
func MustPattern(expr string) Matcher {
	m, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// Regexp wraps an already compiled expression. The word must match in full,
// so the expression is recompiled with anchors around its source.
func Regexp(re *regexp.Regexp) (Matcher, error) {
	if re == nil {
		return Matcher{}, &MatcherError{Kind: KindRegexp, Err: ErrInvalidMatcher}
	}
	return Pattern(re.String())
}

// Glob returns a matcher for a doublestar glob pattern ("ca?", "[0-9]*").
func Glob(expr string) (Matcher, error) {
	if expr == "" || !doublestar.ValidatePattern(expr) {
		return Matcher{}, &MatcherError{Kind: KindGlob, Source: expr, Err: ErrInvalidMatcher}
	}
	return Matcher{kind: KindGlob, source: expr}, nil
}

// Kind returns the matcher kind.
func (m Matcher) Kind() Kind {
	return m.kind
}

// Source returns the literal word or pattern text.
func (m Matcher) Source() string {
	return m.source
}

// IsPattern reports whether the matcher is tested in registration order
// rather than looked up by exact text.
func (m Matcher) IsPattern() bool {
	return m.kind != KindExact
}

// Key returns the normalized "kind:source" identity of the matcher.
func (m Matcher) Key() string {
	return m.kind.String() + ":" + m.source
}

// String implements fmt.Stringer.
func (m Matcher) String() string {
	switch m.kind {
	case KindRegexp:
		return "/" + m.source + "/"
	case KindGlob:
		return "glob(" + m.source + ")"
	default:
		return fmt.Sprintf("%q", m.source)
	}
}

// Match reports whether word satisfies the matcher in full.
func (m Matcher) Match(word string) bool {
	switch m.kind {
	case KindExact:
		return word == m.source
	case KindRegexp:
		return m.re != nil && m.re.MatchString(word)
	case KindGlob:
		ok, err := doublestar.Match(m.source, word)
		return err == nil && ok
	default:
		return false
	}
}
