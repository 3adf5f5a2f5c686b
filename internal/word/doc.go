// Package word recognizes typed words and dispatches registered callbacks.
//
// An Engine subscribes to a key event source and groups accepted characters
// into words using a quiet period (the digit interval):
//
//   - Every event arriving within the interval of the previous one continues
//     the current word; a later event first discards the stale word.
//   - Only events accepted by the configured predicate contribute characters,
//     but every event, accepted or not, restarts the quiet-period timer.
//   - When the timer expires the word is complete. It is resolved against the
//     dictionary (exact words first, then patterns in registration order) and
//     the matching callback, if any, is invoked with a Match.
//
// # Basic Usage
//
//	hub := source.NewHub()
//	eng, err := word.New(word.DefaultConfig(hub))
//	if err != nil {
//	    return err
//	}
//	eng.ListenString("hello", func(m word.Match) {
//	    fmt.Println("typed", m.Word)
//	})
//	if err := eng.Activate(); err != nil {
//	    return err
//	}
//	defer eng.Deactivate()
//
// # Concurrency
//
// Engine is safe for concurrent use. Word state and the pending timer are
// guarded by one mutex; callbacks run outside it on the timer goroutine, so a
// callback may register words or deactivate the engine. Once Deactivate
// returns no further callback starts.
package word
