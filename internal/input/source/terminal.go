package source

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wordevent/internal/input/key"
)

// Terminal is a Source fed by a tcell screen.
//
// Terminals only report key presses, so every key event is published as
// TypePressed followed immediately by a synthesized TypeReleased.
type Terminal struct {
	*Hub

	screen tcell.Screen
	now    func() time.Time
}

// NewTerminal wraps an initialized screen. The caller owns the screen and is
// responsible for calling Fini after Run returns.
func NewTerminal(screen tcell.Screen, opts ...HubOption) *Terminal {
	return &Terminal{
		Hub:    NewHub(opts...),
		screen: screen,
		now:    time.Now,
	}
}

// Run polls the screen and publishes key events until ctx is canceled or the
// screen is finalized.
func (t *Terminal) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			// Wake PollEvent so the loop can observe cancellation.
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			t.publish(convertKeyEvent(e, t.now()))
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) publish(evt key.Event) {
	pressed := t.Publish(evt.As(key.TypePressed))
	released := t.Publish(evt.As(key.TypeReleased))
	t.logger.Debug("key", "event", evt.String(), "pressed", pressed, "released", released)
}

// convertKeyEvent converts a tcell key event to a key.Event.
func convertKeyEvent(e *tcell.EventKey, at time.Time) key.Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if k == tcell.KeyRune {
		return key.Event{Key: key.KeyRune, Rune: e.Rune(), Modifiers: mods, Timestamp: at}
	}

	if named := convertKey(k); named != key.KeyNone {
		return key.Event{Key: named, Modifiers: mods, Timestamp: at}
	}

	// Control characters arrive as their own key codes.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return key.Event{Key: key.KeyRune, Rune: r, Modifiers: mods.With(key.ModCtrl), Timestamp: at}
	}

	return key.Event{Key: key.KeyNone, Modifiers: mods, Timestamp: at}
}

// convertKey converts named tcell keys to key.Key.
func convertKey(k tcell.Key) key.Key {
	switch k {
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyEnter:
		return key.KeyEnter
	case tcell.KeyTab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyInsert:
		return key.KeyInsert
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	case tcell.KeyF1:
		return key.KeyF1
	case tcell.KeyF2:
		return key.KeyF2
	case tcell.KeyF3:
		return key.KeyF3
	case tcell.KeyF4:
		return key.KeyF4
	case tcell.KeyF5:
		return key.KeyF5
	case tcell.KeyF6:
		return key.KeyF6
	case tcell.KeyF7:
		return key.KeyF7
	case tcell.KeyF8:
		return key.KeyF8
	case tcell.KeyF9:
		return key.KeyF9
	case tcell.KeyF10:
		return key.KeyF10
	case tcell.KeyF11:
		return key.KeyF11
	case tcell.KeyF12:
		return key.KeyF12
	default:
		return key.KeyNone
	}
}

// convertMod converts tcell modifiers to key.Modifier.
func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

var (
	_ Source = (*Terminal)(nil)
	_ Source = (*Hub)(nil)
)
