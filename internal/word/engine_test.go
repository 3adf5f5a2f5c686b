package word

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/wordevent/internal/clock"
	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	t      *testing.T
	hub    *source.Hub
	clk    *clock.Fake
	engine *Engine

	mu      sync.Mutex
	matches []Match
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	h := &harness{
		t:   t,
		hub: source.NewHub(),
		clk: clock.NewFake(epoch),
	}
	opts = append([]Option{WithClock(h.clk)}, opts...)

	e, err := New(DefaultConfig(h.hub), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	h.engine = e
	return h
}

// record returns a callback appending every match to h.matches, tagged.
func (h *harness) record(tag string) Callback {
	return func(m Match) {
		h.mu.Lock()
		defer h.mu.Unlock()
		m.ID = tag + ":" + m.ID
		h.matches = append(h.matches, m)
	}
}

func (h *harness) listen(word string, cb Callback) {
	h.t.Helper()
	if err := h.engine.ListenString(word, cb); err != nil {
		h.t.Fatalf("ListenString(%q): %v", word, err)
	}
}

func (h *harness) listenPattern(expr string, cb Callback) {
	h.t.Helper()
	if err := h.engine.ListenPattern(expr, cb); err != nil {
		h.t.Fatalf("ListenPattern(%q): %v", expr, err)
	}
}

// typeChars releases each character with gap between them.
func (h *harness) typeChars(s string, gap time.Duration) {
	for i, r := range s {
		if i > 0 {
			h.clk.Advance(gap)
		}
		h.hub.Publish(key.NewRuneEvent(r, key.ModNone).As(key.TypeReleased))
	}
}

func (h *harness) press(evt key.Event) {
	h.hub.Publish(evt.As(key.TypeReleased))
}

func (h *harness) got() []Match {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Match, len(h.matches))
	copy(out, h.matches)
	return out
}

func (h *harness) words() []string {
	var out []string
	for _, m := range h.got() {
		out = append(out, m.Word)
	}
	return out
}

func tagOf(m Match) string {
	tag, _, _ := strings.Cut(m.ID, ":")
	return tag
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoSource) {
		t.Errorf("New without source: got %v, want ErrNoSource", err)
	}

	cfg := DefaultConfig(source.NewHub())
	cfg.DigitInterval = -time.Millisecond
	if _, err := New(cfg); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("New with negative interval: got %v, want ErrInvalidInterval", err)
	}

	e, err := New(Config{Source: source.NewHub()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := e.Config()
	if got.DigitInterval != DefaultDigitInterval {
		t.Errorf("DigitInterval = %v, want %v", got.DigitInterval, DefaultDigitInterval)
	}
	if got.EventType != key.TypeReleased {
		t.Errorf("EventType = %q, want %q", got.EventType, key.TypeReleased)
	}
	if got.Accept == nil {
		t.Error("Accept should default to a predicate")
	}
}

func TestWordDispatchedAfterQuietPeriod(t *testing.T) {
	h := newHarness(t)
	h.listen("cat", h.record("cat"))

	h.typeChars("cat", 100*time.Millisecond)
	last := h.clk.Now()

	h.clk.Advance(DefaultDigitInterval - time.Millisecond)
	if n := len(h.got()); n != 0 {
		t.Fatalf("dispatched %d times before the quiet period ended", n)
	}
	if h.engine.State() != StateAccumulating {
		t.Errorf("State = %v, want accumulating", h.engine.State())
	}
	if p := h.engine.Pending(); p != "cat" {
		t.Errorf("Pending = %q, want %q", p, "cat")
	}

	h.clk.Advance(time.Millisecond)
	got := h.got()
	if len(got) != 1 {
		t.Fatalf("got %d dispatches, want 1", len(got))
	}

	m := got[0]
	if m.Word != "cat" {
		t.Errorf("Word = %q, want %q", m.Word, "cat")
	}
	if len(m.Events) != 3 {
		t.Fatalf("len(Events) = %d, want 3", len(m.Events))
	}
	for i, r := range "cat" {
		if m.Events[i].Rune != r {
			t.Errorf("Events[%d].Rune = %q, want %q", i, m.Events[i].Rune, r)
		}
	}
	if want := last.Add(DefaultDigitInterval); !m.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", m.CompletedAt, want)
	}
	if m.Source != source.Source(h.hub) {
		t.Error("Match.Source should be the engine's source")
	}
	if m.Matcher.Kind() != dictionary.KindExact {
		t.Errorf("Matcher kind = %v, want exact", m.Matcher.Kind())
	}
	if h.engine.State() != StateIdle {
		t.Errorf("State = %v, want idle", h.engine.State())
	}
	if p := h.engine.Pending(); p != "" {
		t.Errorf("Pending after dispatch = %q, want empty", p)
	}

	h.clk.Advance(10 * DefaultDigitInterval)
	if n := len(h.got()); n != 1 {
		t.Errorf("got %d dispatches after waiting, want still 1", n)
	}
}

func TestGapSplitsWords(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("[a-z]+", h.record("any"))

	h.typeChars("ab", 100*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval + time.Millisecond)

	if got := h.words(); !slices.Equal(got, []string{"ab"}) {
		t.Fatalf("after first word got %v, want [ab]", got)
	}

	h.typeChars("cd", 100*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"ab", "cd"}) {
		t.Errorf("got %v, want [ab cd]", got)
	}
}

func TestGapBoundary(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("[a-z]+", h.record("any"))

	// A gap of exactly the interval lets the timer fire first.
	h.typeChars("ab", DefaultDigitInterval)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("got %v, want [a b]", got)
	}

	h.typeChars("cd", DefaultDigitInterval-time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"a", "b", "cd"}) {
		t.Errorf("got %v, want [a b cd]", got)
	}
}

func TestExactMatchBeatsPattern(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("c.t", h.record("pattern"))
	h.listen("cat", h.record("exact"))

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got := h.got()
	if len(got) != 1 {
		t.Fatalf("got %d dispatches, want 1", len(got))
	}
	if tag := tagOf(got[0]); tag != "exact" {
		t.Errorf("dispatched %q callback, want exact", tag)
	}

	h.typeChars("cot", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got = h.got()
	if len(got) != 2 || tagOf(got[1]) != "pattern" {
		t.Errorf("cot should reach the pattern callback, got %v", got)
	}
}

func TestPatternRegistrationOrder(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("d.g", h.record("first"))
	h.listenPattern("do.", h.record("second"))

	h.typeChars("dog", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got := h.got()
	if len(got) != 1 {
		t.Fatalf("got %d dispatches, want 1", len(got))
	}
	if tag := tagOf(got[0]); tag != "first" {
		t.Errorf("dispatched %q callback, want first", tag)
	}
}

func TestPatternMustMatchWholeWord(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("at", h.record("at"))

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if n := len(h.got()); n != 0 {
		t.Errorf("partial match dispatched %d times", n)
	}
}

func TestRejectedKeysKeepWindowOpen(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("[a-z]+", h.record("any"))

	wait := DefaultDigitInterval - time.Millisecond

	h.typeChars("a", 0)
	h.clk.Advance(wait)
	h.press(key.NewSpecialEvent(key.KeyShift, key.ModShift))
	h.clk.Advance(wait)
	h.typeChars("b", 0)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"ab"}) {
		t.Errorf("got %v, want [ab]", got)
	}

	stats := h.engine.Stats()
	if stats.Accepted != 2 || stats.Rejected != 1 {
		t.Errorf("Accepted=%d Rejected=%d, want 2 and 1", stats.Accepted, stats.Rejected)
	}
}

func TestModifiedCharactersRejected(t *testing.T) {
	h := newHarness(t)
	h.listenPattern(".+", h.record("any"))

	h.typeChars("a", 0)
	h.press(key.NewRuneEvent('x', key.ModCtrl))
	h.press(key.NewRuneEvent('-', key.ModNone))
	h.press(key.NewRuneEvent('B', key.ModShift))
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"aB"}) {
		t.Errorf("got %v, want [aB]", got)
	}
}

func TestUnlistenIsPerKind(t *testing.T) {
	h := newHarness(t)
	h.listen("cat", h.record("exact"))
	h.listenPattern("c.t", h.record("pattern"))

	if n := h.engine.Unlisten(dictionary.Exact("cat")); n != 1 {
		t.Fatalf("Unlisten removed %d, want 1", n)
	}

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got := h.got()
	if len(got) != 1 || tagOf(got[0]) != "pattern" {
		t.Fatalf("want the pattern callback after removing the exact word, got %v", got)
	}

	if n := h.engine.Unlisten(dictionary.MustPattern("c.t"), dictionary.Exact("cat")); n != 1 {
		t.Errorf("Unlisten removed %d, want 1", n)
	}

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if n := len(h.got()); n != 1 {
		t.Errorf("got %d dispatches, want no new ones", n)
	}
	if s := h.engine.Stats(); s.Misses != 1 {
		t.Errorf("Misses = %d, want 1", s.Misses)
	}
}

func TestListenLastWriteWins(t *testing.T) {
	h := newHarness(t)
	h.listen("cat", h.record("old"))
	h.listen("cat", h.record("new"))

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got := h.got()
	if len(got) != 1 || tagOf(got[0]) != "new" {
		t.Errorf("want only the newer callback, got %v", got)
	}
}

func TestListenErrors(t *testing.T) {
	h := newHarness(t)

	if err := h.engine.ListenString("cat", nil); !errors.Is(err, ErrNilCallback) {
		t.Errorf("nil callback: got %v, want ErrNilCallback", err)
	}

	var merr *dictionary.MatcherError
	if err := h.engine.ListenPattern("(", h.record("x")); !errors.As(err, &merr) {
		t.Errorf("bad pattern: got %v, want *MatcherError", err)
	}

	err := h.engine.ListenWords(
		[]dictionary.Matcher{dictionary.Exact("a"), dictionary.Exact("b")},
		[]Callback{h.record("a")},
	)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("mismatch: got %v, want ErrLengthMismatch", err)
	}

	err = h.engine.ListenWords(
		[]dictionary.Matcher{dictionary.Exact("a"), dictionary.Exact("b")},
		[]Callback{h.record("a"), nil},
	)
	if !errors.Is(err, ErrNilCallback) {
		t.Errorf("nil in list: got %v, want ErrNilCallback", err)
	}

	if n := h.engine.Dictionary().Len(); n != 0 {
		t.Errorf("failed registrations left %d entries", n)
	}
}

func TestListenWordsPairsByPosition(t *testing.T) {
	h := newHarness(t)

	err := h.engine.ListenWords(
		[]dictionary.Matcher{dictionary.Exact("one"), dictionary.MustPattern("t.o")},
		[]Callback{h.record("one"), h.record("two")},
	)
	if err != nil {
		t.Fatalf("ListenWords: %v", err)
	}

	h.typeChars("two", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)
	h.typeChars("one", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	got := h.got()
	if len(got) != 2 || tagOf(got[0]) != "two" || tagOf(got[1]) != "one" {
		t.Errorf("unexpected dispatches %v", got)
	}
}

func TestDeactivateCancelsPendingWord(t *testing.T) {
	h := newHarness(t)
	h.listen("cat", h.record("cat"))

	h.typeChars("cat", 50*time.Millisecond)
	if err := h.engine.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	h.clk.Advance(10 * DefaultDigitInterval)
	if n := len(h.got()); n != 0 {
		t.Errorf("dispatched %d times after Deactivate", n)
	}
	if h.engine.IsActive() {
		t.Error("engine should be inactive")
	}
	if n := h.hub.Subscribers(key.TypeReleased); n != 0 {
		t.Errorf("hub still has %d subscribers", n)
	}
	if h.clk.Pending() != 0 {
		t.Errorf("%d timers left armed", h.clk.Pending())
	}

	// Fed directly, bypassing the subscription.
	h.engine.HandleEvent(key.NewRuneEvent('c', key.ModNone))
	h.clk.Advance(DefaultDigitInterval)
	if n := len(h.got()); n != 0 {
		t.Errorf("dispatched %d times for an event after Deactivate", n)
	}
}

func TestActivateDeactivateIdempotent(t *testing.T) {
	h := newHarness(t)

	if err := h.engine.Activate(); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	if n := h.hub.Subscribers(key.TypeReleased); n != 1 {
		t.Errorf("Subscribers = %d after double Activate, want 1", n)
	}

	for i := range 2 {
		if err := h.engine.Deactivate(); err != nil {
			t.Fatalf("Deactivate #%d: %v", i+1, err)
		}
	}

	// Reactivation starts from a clean slate.
	h.listen("hi", h.record("hi"))
	if err := h.engine.Activate(); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	h.typeChars("hi", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"hi"}) {
		t.Errorf("got %v after reactivation, want [hi]", got)
	}
}

func TestActivateFailsOnClosedSource(t *testing.T) {
	hub := source.NewHub()
	hub.Close()

	e, err := New(DefaultConfig(hub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Activate(); !errors.Is(err, source.ErrClosed) {
		t.Errorf("Activate on closed hub: got %v, want ErrClosed", err)
	}
	if e.IsActive() {
		t.Error("engine should not be active after a failed Activate")
	}
}

func TestOtherEventTypesIgnored(t *testing.T) {
	h := newHarness(t)
	h.listenPattern("[a-z]+", h.record("any"))

	h.hub.Publish(key.NewRuneEvent('a', key.ModNone))
	h.clk.Advance(DefaultDigitInterval)

	if n := len(h.got()); n != 0 {
		t.Errorf("press events dispatched %d times", n)
	}
	if s := h.engine.Stats(); s.Events != 0 {
		t.Errorf("Events = %d, want 0", s.Events)
	}
}

func TestEmptyWordSkipsLookup(t *testing.T) {
	h := newHarness(t)
	h.listenPattern(".*", h.record("empty"))

	h.press(key.NewSpecialEvent(key.KeyShift, key.ModShift))
	h.clk.Advance(DefaultDigitInterval)

	if n := len(h.got()); n != 0 {
		t.Errorf("empty word dispatched %d times", n)
	}
	s := h.engine.Stats()
	if s.EmptyWords != 1 || s.Words != 0 {
		t.Errorf("EmptyWords=%d Words=%d, want 1 and 0", s.EmptyWords, s.Words)
	}
}

func TestCallbackPanicRecovered(t *testing.T) {
	h := newHarness(t)
	h.listen("boom", func(Match) { panic("boom") })
	h.listen("ok", h.record("ok"))

	h.typeChars("boom", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)
	h.typeChars("ok", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"ok"}) {
		t.Errorf("got %v, want [ok]", got)
	}
	if s := h.engine.Stats(); s.Panics != 1 {
		t.Errorf("Panics = %d, want 1", s.Panics)
	}
}

func TestCallbackMayDeactivate(t *testing.T) {
	h := newHarness(t)
	h.listen("quit", func(m Match) {
		if err := h.engine.Deactivate(); err != nil {
			t.Errorf("Deactivate from callback: %v", err)
		}
		h.record("quit")(m)
	})

	h.typeChars("quit", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if got := h.words(); !slices.Equal(got, []string{"quit"}) {
		t.Errorf("got %v, want [quit]", got)
	}
	if h.engine.IsActive() {
		t.Error("engine should be inactive")
	}
}

// blockingHook returns a completion hook that signals entered and then waits
// for release before returning.
func blockingHook(entered chan<- string, release <-chan struct{}) CompletionHook {
	return func(c Completion) {
		entered <- c.Word
		<-release
	}
}

func TestDeactivateDuringCompletionSkipsCallback(t *testing.T) {
	entered := make(chan string, 1)
	release := make(chan struct{})
	h := newHarness(t, WithCompletionHook(blockingHook(entered, release)))
	h.listen("cat", h.record("cat"))

	h.typeChars("cat", 50*time.Millisecond)
	fired := make(chan struct{})
	go func() {
		h.clk.Advance(DefaultDigitInterval)
		close(fired)
	}()
	if w := <-entered; w != "cat" {
		t.Fatalf("hook entered for %q", w)
	}

	deactivated := make(chan error, 1)
	go func() { deactivated <- h.engine.Deactivate() }()
	select {
	case <-deactivated:
		t.Fatal("Deactivate returned while a completion was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-deactivated; err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	<-fired

	if n := len(h.got()); n != 0 {
		t.Errorf("dispatched %d times after Deactivate", n)
	}
	if s := h.engine.Stats(); s.Matches != 1 {
		t.Errorf("Matches = %d, want 1", s.Matches)
	}
}

func TestDeactivateDuringLateCompletionSkipsCallback(t *testing.T) {
	hub := source.NewHub()
	clk := &stuckClock{now: epoch}
	entered := make(chan string, 1)
	release := make(chan struct{})

	e, err := New(DefaultConfig(hub), WithClock(clk), WithCompletionHook(blockingHook(entered, release)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var calls atomic.Int32
	if err := e.ListenString("a", func(Match) { calls.Add(1) }); err != nil {
		t.Fatalf("ListenString: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	hub.Publish(key.NewRuneEvent('a', key.ModNone).As(key.TypeReleased))
	clk.advance(DefaultDigitInterval + time.Millisecond)
	published := make(chan struct{})
	go func() {
		hub.Publish(key.NewRuneEvent('b', key.ModNone).As(key.TypeReleased))
		close(published)
	}()
	if w := <-entered; w != "a" {
		t.Fatalf("hook entered for %q", w)
	}

	deactivated := make(chan error, 1)
	go func() { deactivated <- e.Deactivate() }()
	select {
	case <-deactivated:
		t.Fatal("Deactivate returned while a completion was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-deactivated; err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	<-published

	if n := calls.Load(); n != 0 {
		t.Errorf("callback ran %d times after Deactivate", n)
	}
}

func TestCompletionRetiredBeforeDeactivateIsDropped(t *testing.T) {
	h := newHarness(t)
	h.listen("cat", h.record("cat"))
	h.typeChars("cat", 50*time.Millisecond)

	h.engine.mu.Lock()
	w := h.engine.retireLocked(h.clk.Now())
	h.engine.mu.Unlock()

	if err := h.engine.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := h.engine.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	h.engine.complete(*w)

	if n := len(h.got()); n != 0 {
		t.Errorf("a word retired before Deactivate dispatched %d times", n)
	}
	if s := h.engine.Stats(); s.Words != 0 {
		t.Errorf("Words = %d, want 0", s.Words)
	}
}

func TestStateAgreesWithPendingDuringCompletion(t *testing.T) {
	type view struct {
		state   State
		pending string
	}
	var seen []view
	var h *harness
	h = newHarness(t, WithCompletionHook(func(Completion) {
		seen = append(seen, view{h.engine.State(), h.engine.Pending()})
	}))

	h.typeChars("cat", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if len(seen) != 1 || seen[0] != (view{StateIdle, ""}) {
		t.Errorf("hook saw %+v, want idle with no pending word", seen)
	}
}

func TestGoroutineIDDistinct(t *testing.T) {
	here := goroutineID()
	if here == 0 {
		t.Fatal("goroutineID = 0")
	}
	if again := goroutineID(); again != here {
		t.Errorf("goroutineID changed from %d to %d", here, again)
	}
	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	if id := <-other; id == here || id == 0 {
		t.Errorf("other goroutine id = %d, caller = %d", id, here)
	}
}

func TestCallbackMayUnlistenItself(t *testing.T) {
	h := newHarness(t)
	once := dictionary.Exact("once")
	if err := h.engine.Listen(once, func(m Match) {
		h.engine.Unlisten(m.Matcher)
		h.record("once")(m)
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	for range 2 {
		h.typeChars("once", 50*time.Millisecond)
		h.clk.Advance(DefaultDigitInterval)
	}

	if n := len(h.got()); n != 1 {
		t.Errorf("got %d dispatches, want 1", n)
	}
}

func TestCompletionHookSeesEveryWord(t *testing.T) {
	var completions []Completion
	h := newHarness(t, WithCompletionHook(func(c Completion) {
		completions = append(completions, c)
	}))
	h.listen("yes", h.record("yes"))

	h.typeChars("yes", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)
	h.typeChars("no", 50*time.Millisecond)
	h.clk.Advance(DefaultDigitInterval)

	if len(completions) != 2 {
		t.Fatalf("got %d completions, want 2", len(completions))
	}
	if !completions[0].Matched || completions[0].Word != "yes" {
		t.Errorf("completions[0] = %+v", completions[0])
	}
	if completions[1].Matched || completions[1].Word != "no" {
		t.Errorf("completions[1] = %+v", completions[1])
	}
	if len(completions[1].Events) != 2 {
		t.Errorf("len(Events) = %d, want 2", len(completions[1].Events))
	}
}

func TestCustomPredicateAndInterval(t *testing.T) {
	hub := source.NewHub()
	clk := clock.NewFake(epoch)

	cfg := Config{
		Source:        hub,
		DigitInterval: 100 * time.Millisecond,
		EventType:     key.TypePressed,
		Accept:        key.AcceptDigits,
	}
	e, err := New(cfg, WithClock(clk))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var words []string
	if err := e.ListenPattern(`\d{3}`, func(m Match) { words = append(words, m.Word) }); err != nil {
		t.Fatalf("ListenPattern: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	for _, r := range "1a23" {
		hub.Publish(key.NewRuneEvent(r, key.ModNone))
		clk.Advance(50 * time.Millisecond)
	}
	clk.Advance(100 * time.Millisecond)

	if !slices.Equal(words, []string{"123"}) {
		t.Errorf("got %v, want [123]", words)
	}
}

// stuckClock never fires its timers, standing in for a timer that runs late.
type stuckClock struct {
	mu  sync.Mutex
	now time.Time
}

type stuckTimer struct{}

func (stuckTimer) Stop() bool { return true }

func (c *stuckClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stuckClock) AfterFunc(time.Duration, func()) clock.Timer {
	return stuckTimer{}
}

func (c *stuckClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAcceptedEventWithoutRuneIsRejected(t *testing.T) {
	hub := source.NewHub()
	clk := clock.NewFake(epoch)

	cfg := DefaultConfig(hub)
	cfg.Accept = key.AnyOf(key.AcceptAlphanumeric, func(evt key.Event) bool {
		return evt.Key == key.KeyEnter
	})
	var completions []Completion
	e, err := New(cfg, WithClock(clk), WithCompletionHook(func(c Completion) {
		completions = append(completions, c)
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	hub.Publish(key.NewRuneEvent('o', key.ModNone).As(key.TypeReleased))
	clk.Advance(50 * time.Millisecond)
	hub.Publish(key.NewSpecialEvent(key.KeyEnter, key.ModNone).As(key.TypeReleased))
	clk.Advance(50 * time.Millisecond)
	hub.Publish(key.NewRuneEvent('k', key.ModNone).As(key.TypeReleased))
	clk.Advance(DefaultDigitInterval)

	if len(completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(completions))
	}
	c := completions[0]
	if c.Word != "ok" || len(c.Events) != 2 {
		t.Errorf("completion = %q with %d events, want \"ok\" with 2", c.Word, len(c.Events))
	}
	for i, r := range c.Word {
		if c.Events[i].Rune != r {
			t.Errorf("Events[%d].Rune = %q, want %q", i, c.Events[i].Rune, r)
		}
	}
	if s := e.Stats(); s.Accepted != 2 || s.Rejected != 1 {
		t.Errorf("Accepted = %d, Rejected = %d, want 2 and 1", s.Accepted, s.Rejected)
	}
}

func TestLateTimerCompletesPreviousWord(t *testing.T) {
	hub := source.NewHub()
	clk := &stuckClock{now: epoch}

	e, err := New(DefaultConfig(hub), WithClock(clk))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var words []string
	if err := e.ListenPattern("[a-z]+", func(m Match) { words = append(words, m.Word) }); err != nil {
		t.Fatalf("ListenPattern: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	hub.Publish(key.NewRuneEvent('a', key.ModNone).As(key.TypeReleased))
	clk.advance(DefaultDigitInterval + time.Millisecond)
	hub.Publish(key.NewRuneEvent('b', key.ModNone).As(key.TypeReleased))

	if !slices.Equal(words, []string{"a"}) {
		t.Errorf("got %v, want [a]", words)
	}
	if p := e.Pending(); p != "b" {
		t.Errorf("Pending = %q, want %q", p, "b")
	}
}

func TestRealClockDispatch(t *testing.T) {
	hub := source.NewHub()
	cfg := DefaultConfig(hub)
	cfg.DigitInterval = 20 * time.Millisecond

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan string, 1)
	if err := e.ListenString("go", func(m Match) { done <- m.Word }); err != nil {
		t.Fatalf("ListenString: %v", err)
	}
	if err := e.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer func() { _ = e.Deactivate() }()

	for _, r := range "go" {
		hub.Publish(key.NewRuneEvent(r, key.ModNone).As(key.TypeReleased))
	}

	select {
	case w := <-done:
		if w != "go" {
			t.Errorf("got %q, want %q", w, "go")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateAccumulating, "accumulating"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
