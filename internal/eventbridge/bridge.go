// Package eventbridge forwards graph events to a remote renderer. Every
// event is turned into a JSON-friendly payload and emitted under its event
// name, so a renderer in another process can redraw from the snapshots it
// carries.
package eventbridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/nodemachine/internal/ctxlog"
	"github.com/specialistvlad/nodemachine/internal/events"
	"github.com/specialistvlad/nodemachine/internal/node"
)

// Emitter sends one named message to the remote side.
type Emitter interface {
	Send(event string, payload any) error
}

// Source is what the bridge subscribes to.
type Source interface {
	On(eventName string, h events.Handler) events.Subscription
	Unbind(eventName string, sub events.Subscription) bool
}

// Bridge forwards events from a Source to an Emitter.
type Bridge struct {
	logger  *slog.Logger
	emitter Emitter
	prefix  string
}

// New creates a bridge. Wire event names are prefix + event type.
func New(ctx context.Context, emitter Emitter, prefix string) *Bridge {
	return &Bridge{
		logger:  ctxlog.FromContext(ctx).With("component", "eventbridge"),
		emitter: emitter,
		prefix:  prefix,
	}
}

// Attach subscribes to every event of src. The returned function removes the
// subscriptions.
func (b *Bridge) Attach(src Source) (detach func()) {
	subs := make(map[string]events.Subscription, len(events.Names))
	for _, name := range events.Names {
		subs[name] = src.On(name, b.Forward)
	}
	return func() {
		for name, sub := range subs {
			src.Unbind(name, sub)
		}
	}
}

// Forward emits a single event. Failures are logged and dropped; the graph
// never waits on the renderer.
func (b *Bridge) Forward(ev events.Event) {
	payload, err := Payload(ev)
	if err != nil {
		b.logger.Error("Failed to encode event.", "event", ev.Type, "error", err)
		return
	}
	if err := b.emitter.Send(b.prefix+ev.Type, payload); err != nil {
		b.logger.Warn("Failed to forward event.", "event", ev.Type, "error", err)
		return
	}
	b.logger.Debug("Forwarded event.", "event", ev.Type)
}

// wireEvent is the serialized shape of an event.
type wireEvent struct {
	Type             string             `json:"type"`
	Nodes            node.Map           `json:"nodes,omitempty"`
	Connections      node.ConnectionMap `json:"connections,omitempty"`
	Node             *node.Node         `json:"node,omitempty"`
	Connection       *node.Connection   `json:"connection,omitempty"`
	InvalidateOutput bool               `json:"invalidateOutput,omitempty"`
	Extra            map[string]any     `json:"extra,omitempty"`
}

// Payload converts an event into plain maps, slices and scalars.
func Payload(ev events.Event) (map[string]any, error) {
	raw, err := sonic.Marshal(wireEvent{
		Type:             ev.Type,
		Nodes:            ev.Nodes,
		Connections:      ev.Connections,
		Node:             ev.Node,
		Connection:       ev.Connection,
		InvalidateOutput: ev.InvalidateOutput,
		Extra:            ev.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	var out map[string]any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", ev.Type, err)
	}
	return out, nil
}
