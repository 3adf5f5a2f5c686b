// Package source defines where key events come from.
//
// A Source delivers key notifications to handlers subscribed by notification
// type. Hub is an in-memory source that fans out published events
// synchronously; Terminal feeds a Hub from a tcell screen.
package source

import (
	"errors"

	"github.com/dshills/wordevent/internal/input/key"
)

// Sentinel errors for sources.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidType is returned when subscribing with an empty event type.
	ErrInvalidType = errors.New("invalid event type")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrClosed is returned when a source has been shut down.
	ErrClosed = errors.New("source closed")
)

// Handler receives key events.
type Handler func(key.Event)

// Subscription identifies one registered handler.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Type returns the subscribed notification type.
	Type() key.Type
}

// Source is anything that can emit key notifications to subscribers.
type Source interface {
	Subscribe(t key.Type, h Handler) (Subscription, error)
	Unsubscribe(sub Subscription) error
}
