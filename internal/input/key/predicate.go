package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Predicate decides whether an event contributes its character to the
// word being typed.
type Predicate func(Event) bool

// AcceptAlphanumeric accepts unmodified ASCII letters (either case) and digits.
// It is the default predicate.
func AcceptAlphanumeric(e Event) bool {
	return AcceptLetters(e) || AcceptDigits(e)
}

// AcceptLetters accepts unmodified ASCII letters.
func AcceptLetters(e Event) bool {
	if !e.IsRune() || e.IsModified() {
		return false
	}
	r := e.Rune
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// AcceptDigits accepts unmodified ASCII digits.
func AcceptDigits(e Event) bool {
	if !e.IsRune() || e.IsModified() {
		return false
	}
	return e.Rune >= '0' && e.Rune <= '9'
}

// AcceptPrintable accepts any unmodified printable character except space.
func AcceptPrintable(e Event) bool {
	return e.IsChar() && !e.IsModified() && !unicode.IsSpace(e.Rune)
}

// AcceptRunes returns a predicate accepting exactly the unmodified characters in chars.
func AcceptRunes(chars string) Predicate {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return func(e Event) bool {
		if !e.IsRune() || e.IsModified() {
			return false
		}
		_, ok := set[e.Rune]
		return ok
	}
}

// AnyOf accepts an event if any of the predicates accepts it.
func AnyOf(preds ...Predicate) Predicate {
	return func(e Event) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}
		return false
	}
}

// AllOf accepts an event only if every predicate accepts it.
func AllOf(preds ...Predicate) Predicate {
	return func(e Event) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(e Event) bool {
		return !p(e)
	}
}

var namedPredicates = map[string]Predicate{
	"alnum":        AcceptAlphanumeric,
	"alphanumeric": AcceptAlphanumeric,
	"letters":      AcceptLetters,
	"alpha":        AcceptLetters,
	"digits":       AcceptDigits,
	"numbers":      AcceptDigits,
	"printable":    AcceptPrintable,
}

// PredicateByName returns a built-in predicate by name: "alnum", "letters",
// "digits" or "printable".
func PredicateByName(name string) (Predicate, error) {
	if p, ok := namedPredicates[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown predicate %q", name)
}
