package source

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/wordevent/internal/input/key"
)

type subscription struct {
	id      string
	typ     key.Type
	handler Handler
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Type() key.Type { return s.typ }

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the logger for the hub.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Hub is an in-memory Source. Publish delivers an event synchronously to
// every handler subscribed to the event's type, in subscription order.
type Hub struct {
	mu     sync.RWMutex
	subs   map[key.Type][]*subscription
	closed bool

	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:   make(map[key.Type][]*subscription),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers h for events of type t.
func (h *Hub) Subscribe(t key.Type, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if t == "" {
		return nil, ErrInvalidType
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	sub := &subscription{
		id:      uuid.New().String(),
		typ:     t,
		handler: handler,
	}
	h.subs[t] = append(h.subs[t], sub)
	h.logger.Debug("subscribed", "id", sub.id, "type", t)
	return sub, nil
}

// Unsubscribe removes a subscription created by this hub.
func (h *Hub) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.subs[sub.Type()]
	for i, s := range list {
		if s.id == sub.ID() {
			h.subs[sub.Type()] = append(list[:i:i], list[i+1:]...)
			h.logger.Debug("unsubscribed", "id", s.id, "type", s.typ)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers evt to the handlers subscribed to its type and returns
// how many received it. Handlers run on the caller's goroutine.
func (h *Hub) Publish(evt key.Event) int {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return 0
	}
	list := h.subs[evt.Kind()]
	handlers := make([]Handler, len(list))
	for i, s := range list {
		handlers[i] = s.handler
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(evt)
	}
	return len(handlers)
}

// Subscribers returns the number of handlers subscribed to t.
func (h *Hub) Subscribers(t key.Type) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[t])
}

// Close drops every subscription; later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[key.Type][]*subscription)
}
