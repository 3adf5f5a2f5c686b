package word

import "sync/atomic"

// Stats holds engine counters.
type Stats struct {
	Events     uint64 // events handled while active
	Accepted   uint64 // events that contributed a character
	Rejected   uint64 // events refused by the predicate
	Resets     uint64 // stale non-empty words discarded
	Words      uint64 // non-empty words completed
	EmptyWords uint64 // quiet periods that ended with no characters
	Matches    uint64 // words that resolved to a callback
	Misses     uint64 // words with no registration
	Panics     uint64 // callbacks that panicked
}

type counters struct {
	events     atomic.Uint64
	accepted   atomic.Uint64
	rejected   atomic.Uint64
	resets     atomic.Uint64
	words      atomic.Uint64
	emptyWords atomic.Uint64
	matches    atomic.Uint64
	misses     atomic.Uint64
	panics     atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Events:     c.events.Load(),
		Accepted:   c.accepted.Load(),
		Rejected:   c.rejected.Load(),
		Resets:     c.resets.Load(),
		Words:      c.words.Load(),
		EmptyWords: c.emptyWords.Load(),
		Matches:    c.matches.Load(),
		Misses:     c.misses.Load(),
		Panics:     c.panics.Load(),
	}
}
