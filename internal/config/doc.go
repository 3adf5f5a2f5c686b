// Package config loads wordevent settings and word bindings.
//
// Configuration comes from one file, TOML or YAML by extension, overlaid
// with WORDEVENT_* environment variables:
//
//	[engine]
//	digit_interval = "500ms"    # Go duration or integer milliseconds
//	event_type = "key released" # or "key pressed"
//	accept = "alnum"            # alnum | letters | digits | printable
//	accept_chars = "-_"         # extra characters accepted
//
//	[logging]
//	level = "info"
//
//	[[words]]
//	word = "hello"              # exactly one of word, pattern, glob
//	action = "print"            # print | lua
//	message = "hi {{.Word}}"
//
// Variables: WORDEVENT_DIGIT_INTERVAL, WORDEVENT_EVENT_TYPE,
// WORDEVENT_ACCEPT, WORDEVENT_ACCEPT_CHARS, WORDEVENT_LOG_LEVEL.
//
// # Sub-packages
//
//   - loader: file and environment sources decoded to generic maps
//   - watcher: fsnotify-based change detection for live reload
package config
