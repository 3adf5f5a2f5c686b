// Package key provides key event types and acceptance predicates for word
// recognition.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, modifier keys, or runes)
//   - Modifier: Represents modifier state (Ctrl, Alt, Shift, Meta)
//   - Type: The notification kind ("key pressed" or "key released")
//   - Event: A single key notification with modifiers and timestamp
//   - Predicate: Decides whether an event contributes a character to a word
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape", "Shift"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<CR>", "<Esc>"
//
// ParseSequence splits a whitespace separated list of specifications, which is
// how typed input is described in configuration files and on the command line.
package key
