package word

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/wordevent/internal/clock"
	"github.com/dshills/wordevent/internal/debounce"
	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

// Engine accumulates typed characters into words and dispatches callbacks
// for completed words found in its dictionary.
type Engine struct {
	cfg        Config
	dict       *dictionary.Dictionary[Callback]
	clock      clock.Clock
	slot       *debounce.Slot
	logger     *slog.Logger
	onComplete CompletionHook
	stats      counters

	mu        sync.Mutex
	active    bool
	gen       uint64 // bumped by Deactivate; stale dispatches compare against it
	sub       source.Subscription
	word      strings.Builder
	events    []key.Event
	lastEvent time.Time
	hasLast   bool

	// dispatching counts running completions per goroutine id. idle is
	// signalled whenever a completion finishes.
	dispatching map[uint64]int
	idle        *sync.Cond
}

// pendingWord is a word retired under the lock and completed outside it.
type pendingWord struct {
	text   string
	events []key.Event
	at     time.Time
	gen    uint64
}

// New creates an inactive engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg.withDefaults(),
		dict:   dictionary.New[Callback](),
		clock:  clock.Real{},
		logger: slog.New(slog.DiscardHandler),

		dispatching: make(map[uint64]int),
	}
	e.idle = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	e.slot = debounce.New(e.clock)

	return e, nil
}

// Config returns the engine configuration with defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// Dictionary exposes the engine's registrations.
func (e *Engine) Dictionary() *dictionary.Dictionary[Callback] {
	return e.dict
}

// Listen registers cb for m. A later registration of the same matcher
// replaces the callback.
func (e *Engine) Listen(m dictionary.Matcher, cb Callback) error {
	if cb == nil {
		return ErrNilCallback
	}
	e.dict.Add(m, cb)
	e.logger.Debug("listening", "matcher", m.String())
	return nil
}

// ListenString registers cb for the exact word.
func (e *Engine) ListenString(word string, cb Callback) error {
	return e.Listen(dictionary.Exact(word), cb)
}

// ListenPattern registers cb for a regular expression that must match the
// whole word.
func (e *Engine) ListenPattern(expr string, cb Callback) error {
	m, err := dictionary.Pattern(expr)
	if err != nil {
		return err
	}
	return e.Listen(m, cb)
}

// ListenWords registers matchers[i] with cbs[i]. Nothing is registered if the
// lists differ in length or any callback is nil.
func (e *Engine) ListenWords(matchers []dictionary.Matcher, cbs []Callback) error {
	if len(matchers) != len(cbs) {
		return fmt.Errorf("%w: %d matchers, %d callbacks", ErrLengthMismatch, len(matchers), len(cbs))
	}
	if slices.ContainsFunc(cbs, func(cb Callback) bool { return cb == nil }) {
		return ErrNilCallback
	}
	return e.dict.AddAll(matchers, cbs)
}

// Unlisten removes the registrations for the given matchers and returns how
// many were present.
func (e *Engine) Unlisten(matchers ...dictionary.Matcher) int {
	return e.dict.Remove(matchers...)
}

// Activate subscribes the engine to its source. Calling Activate on an
// active engine does nothing.
func (e *Engine) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return nil
	}

	sub, err := e.cfg.Source.Subscribe(e.cfg.EventType, e.HandleEvent)
	if err != nil {
		return fmt.Errorf("subscribe to %q: %w", e.cfg.EventType, err)
	}

	e.sub = sub
	e.active = true
	e.resetLocked()
	e.hasLast = false

	e.logger.Debug("activated",
		"event_type", e.cfg.EventType,
		"digit_interval", e.cfg.DigitInterval)
	return nil
}

// Deactivate unsubscribes the engine and abandons any word in progress.
// Calling Deactivate on an inactive engine does nothing. A completion already
// running on another goroutine is waited for, and its callback is skipped if
// it has not started yet. After Deactivate returns no callback is started.
// Deactivate may be called from a callback.
func (e *Engine) Deactivate() error {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return nil
	}
	e.active = false
	e.gen++
	e.slot.Cancel()
	e.resetLocked()
	sub := e.sub
	e.sub = nil

	self := goroutineID()
	for len(e.dispatching) > 1 || (len(e.dispatching) == 1 && e.dispatching[self] == 0) {
		e.idle.Wait()
	}
	e.mu.Unlock()

	e.logger.Debug("deactivated")

	if err := e.cfg.Source.Unsubscribe(sub); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// IsActive reports whether the engine is subscribed to its source.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// State reports whether a word is still being accumulated.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slot.Pending() {
		return StateAccumulating
	}
	return StateIdle
}

// Pending returns the text of the word in progress.
func (e *Engine) Pending() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.word.String()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

// HandleEvent processes one key event. The engine's subscription calls it for
// every event of the configured type; it is exported so events can also be
// fed directly. Events are ignored while the engine is inactive.
func (e *Engine) HandleEvent(evt key.Event) {
	e.mu.Lock()

	if !e.active {
		e.mu.Unlock()
		return
	}

	now := e.clock.Now()
	e.stats.events.Add(1)

	var late *pendingWord
	if e.hasLast && now.Sub(e.lastEvent) > e.cfg.DigitInterval {
		// The timer for the previous word should already have fired. If it
		// is still pending it is running late; complete that word first.
		if e.slot.Cancel() && e.word.Len() > 0 {
			late = e.retireLocked(now)
		}
		if e.word.Len() > 0 {
			e.stats.resets.Add(1)
			e.logger.Debug("stale word discarded", "word", e.word.String())
		}
		e.resetLocked()
	} else {
		e.slot.Cancel()
	}

	// Events without a rune never join the word, so Events and the word's
	// runes stay in step.
	if evt.Rune != 0 && e.cfg.Accept(evt) {
		e.word.WriteRune(evt.Rune)
		e.events = append(e.events, evt)
		e.stats.accepted.Add(1)
		e.logger.Debug("accepted", "key", evt.String(), "word", e.word.String())
	} else {
		e.stats.rejected.Add(1)
		e.logger.Debug("rejected", "key", evt.String())
	}

	e.lastEvent = now
	e.hasLast = true
	e.slot.Schedule(e.cfg.DigitInterval, e.expire)

	e.mu.Unlock()

	if late != nil {
		e.complete(*late)
	}
}

// expire runs when the quiet period ends.
func (e *Engine) expire(tok debounce.Token) {
	e.mu.Lock()
	if !e.active || !e.slot.Claim(tok) {
		e.mu.Unlock()
		return
	}
	w := e.retireLocked(e.clock.Now())
	e.mu.Unlock()

	e.complete(*w)
}

// retireLocked detaches the current word from the engine.
func (e *Engine) retireLocked(at time.Time) *pendingWord {
	w := &pendingWord{
		text:   e.word.String(),
		events: e.events,
		at:     at,
		gen:    e.gen,
	}
	e.word.Reset()
	e.events = nil
	return w
}

func (e *Engine) resetLocked() {
	e.word.Reset()
	e.events = nil
}

// complete resolves a finished word and runs its callback. Nothing runs if
// the engine was deactivated after the word was retired.
func (e *Engine) complete(w pendingWord) {
	if !e.enter(w.gen) {
		return
	}
	defer e.leave()

	if w.text == "" {
		e.stats.emptyWords.Add(1)
		return
	}
	e.stats.words.Add(1)

	m, cb, ok := e.dict.Lookup(w.text)
	if e.onComplete != nil {
		e.onComplete(Completion{
			Word:        w.text,
			Events:      slices.Clone(w.events),
			Matched:     ok,
			Matcher:     m,
			CompletedAt: w.at,
		})
	}

	if !ok {
		e.stats.misses.Add(1)
		e.logger.Debug("no match", "word", w.text)
		return
	}

	e.stats.matches.Add(1)
	e.logger.Debug("matched", "word", w.text, "matcher", m.String())

	if !e.current(w.gen) {
		e.logger.Debug("deactivated before dispatch", "word", w.text)
		return
	}

	e.invoke(cb, Match{
		ID:          uuid.New().String(),
		Word:        w.text,
		Events:      w.events,
		Matcher:     m,
		Source:      e.cfg.Source,
		CompletedAt: w.at,
	})
}

// enter registers a running completion for gen. It fails once Deactivate
// has moved past gen.
func (e *Engine) enter(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.gen != gen {
		return false
	}
	e.dispatching[goroutineID()]++
	return true
}

func (e *Engine) leave() {
	id := goroutineID()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dispatching[id]--; e.dispatching[id] <= 0 {
		delete(e.dispatching, id)
	}
	e.idle.Broadcast()
}

// current reports whether a completion for gen may still dispatch.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active && e.gen == gen
}

// invoke runs cb, recovering from panics so the timer goroutine survives.
func (e *Engine) invoke(cb Callback, m Match) {
	defer func() {
		if r := recover(); r != nil {
			e.stats.panics.Add(1)
			e.logger.Error("callback panicked",
				"word", m.Word,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	cb(m)
}
