package key

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Type identifies the kind of key notification an Event carries.
type Type string

const (
	// TypePressed is delivered when a key goes down.
	TypePressed Type = "key pressed"

	// TypeReleased is delivered when a key comes back up.
	TypeReleased Type = "key released"
)

// String returns the notification name.
func (t Type) String() string {
	return string(t)
}

// ParseType parses a notification name. Both the long form ("key released")
// and the short DOM-style form ("keyup") are recognized.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key pressed", "pressed", "keydown", "press":
		return TypePressed, nil
	case "key released", "released", "keyup", "release":
		return TypeReleased, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Event represents a single key notification.
type Event struct {
	// Type is the notification kind. The zero value is treated as TypePressed.
	Type Type

	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key press event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{
		Type:      TypePressed,
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewRuneEvent creates a key press event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates a key press event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return NewEvent(key, 0, mods)
}

// Kind returns the notification type, defaulting to TypePressed.
func (e Event) Kind() Type {
	if e.Type == "" {
		return TypePressed
	}
	return e.Type
}

// As returns a copy of the event with the given notification type.
func (e Event) As(t Type) Event {
	e.Type = t
	return e
}

// At returns a copy of the event stamped with t.
func (e Event) At(t time.Time) Event {
	e.Timestamp = t
	return e
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// IsModified returns true if any modifier is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself).
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsEscape returns true if this is the Escape key (with no modifiers).
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers == ModNone
}

// IsInterrupt returns true for Ctrl+C.
func (e Event) IsInterrupt() bool {
	return e.Key == KeyRune && unicode.ToLower(e.Rune) == 'c' && e.Modifiers.HasCtrl()
}

// String returns a canonical string representation.
// Examples: "a", "A", "C-s", "Enter", "Shift"
func (e Event) String() string {
	var parts []string

	if e.Modifiers.HasCtrl() && e.Key != KeyCtrl {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() && e.Key != KeyAlt {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() && e.Key != KeyMeta {
		parts = append(parts, "M")
	}
	// Only show Shift for non-character keys
	if e.Modifiers.HasShift() && !e.IsRune() && e.Key != KeyShift {
		parts = append(parts, "S")
	}

	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.Key == KeyRune:
		parts = append(parts, string(e.Rune))
	default:
		parts = append(parts, e.Key.String())
	}

	return strings.Join(parts, "-")
}

// Equals returns true if two events represent the same key.
// Timestamps and notification types are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Type: %s, Key: %s, Rune: %q, Modifiers: %s}",
		e.Kind(), e.Key.String(), e.Rune, e.Modifiers.String())
}
