package word

import (
	"time"

	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

// Callback is invoked when a completed word resolves to its registration.
type Callback func(Match)

// Match describes one dispatched word.
type Match struct {
	// ID uniquely identifies this dispatch.
	ID string

	// Word is the completed word text.
	Word string

	// Events are the accepted events that produced Word, in order.
	Events []key.Event

	// Matcher is the dictionary entry that selected the callback.
	Matcher dictionary.Matcher

	// Source is the input source the engine listens to.
	Source source.Source

	// CompletedAt is when the quiet period expired.
	CompletedAt time.Time
}

// Completion describes a finished word whether or not it matched.
type Completion struct {
	Word        string
	Events      []key.Event
	Matched     bool
	Matcher     dictionary.Matcher
	CompletedAt time.Time
}

// CompletionHook observes completed words.
type CompletionHook func(Completion)

// State is the engine's accumulation state.
type State int

const (
	// StateIdle means no quiet-period timer is pending.
	StateIdle State = iota
	// StateAccumulating means a word may still be extended.
	StateAccumulating
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	default:
		return "unknown"
	}
}
