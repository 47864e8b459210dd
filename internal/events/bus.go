package events

import (
	"log/slog"
	"slices"
)

// Subscription identifies a handler bound with On. Pass it to Unbind to
// remove that handler.
type Subscription uint64

type binding struct {
	id      Subscription
	handler Handler
}

// Bus holds the handlers bound per event name.
type Bus struct {
	handlers map[string][]binding
	next     Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]binding)}
}

// On binds a handler to an event name.
func (b *Bus) On(eventName string, h Handler) Subscription {
	if h == nil {
		panic("events: nil handler for '" + eventName + "'")
	}
	b.next++
	b.handlers[eventName] = append(b.handlers[eventName], binding{id: b.next, handler: h})
	slog.Debug("Bound event handler.", "event", eventName, "subscription", b.next)
	return b.next
}

// OnAll binds the same handler to every event name in Names and returns the
// subscriptions in the same order.
func (b *Bus) OnAll(h Handler) []Subscription {
	subs := make([]Subscription, len(Names))
	for i, name := range Names {
		subs[i] = b.On(name, h)
	}
	return subs
}

// Unbind removes a handler. It reports whether the subscription was bound to
// the event name.
func (b *Bus) Unbind(eventName string, sub Subscription) bool {
	list := b.handlers[eventName]
	idx := slices.IndexFunc(list, func(x binding) bool { return x.id == sub })
	if idx < 0 {
		return false
	}
	list = slices.Delete(slices.Clone(list), idx, idx+1)
	if len(list) == 0 {
		delete(b.handlers, eventName)
	} else {
		b.handlers[eventName] = list
	}
	return true
}

// Emit calls every handler bound to ev.Type. Handlers bound or unbound while
// the event is being delivered take effect from the next Emit.
func (b *Bus) Emit(ev Event) {
	for _, bound := range b.handlers[ev.Type] {
		bound.handler(ev)
	}
}

// Len returns the number of handlers bound to an event name.
func (b *Bus) Len(eventName string) int {
	return len(b.handlers[eventName])
}
