// Package eventbus decouples the network monitor stream from the daemon's
// decision loop. Delivery is best-effort with drop-on-full buffers, matching
// the engine's at-most-one-in-flight policy: a dropped event is always
// followed by a trailing decisive event when the network keeps changing.
package eventbus

import (
	"context"
	"sync"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Bus fanouts trigger events to subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan schema.TriggerEvent]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan schema.TriggerEvent]struct{}),
		log:   logger,
		depth: 16,
	}
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// func that closes it.
func (b *Bus) Subscribe() (<-chan schema.TriggerEvent, func()) {
	ch := make(chan schema.TriggerEvent, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}
}

// Publish delivers the event to every subscriber, dropping it for slow ones.
func (b *Bus) Publish(event schema.TriggerEvent) {
	b.mu.Lock()
	subs := make([]chan schema.TriggerEvent, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()
	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.log.Trace("trigger event dropped", "iface", event.Interface, "status", event.Status, "count", dropped)
	}
}
