package eventhub

import (
	"context"

	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// TopicHandle is a thin facade over a Hub bound to a single topic.
type TopicHandle struct {
	h    *Hub
	name string
}

// Topic returns a facade for name.
func (h *Hub) Topic(name string) *TopicHandle { return &TopicHandle{h: h, name: name} }

// Name returns the bound topic.
func (t *TopicHandle) Name() string { return t.name }

// Subscribe registers fn on the bound topic.
func (t *TopicHandle) Subscribe(fn cevt.Callback) (cevt.Subscription, error) {
	return t.h.Subscribe(t.name, fn)
}

// Publish publishes args on the bound topic.
func (t *TopicHandle) Publish(ctx context.Context, args ...any) (bool, error) {
	return t.h.Publish(ctx, t.name, args...)
}

// Unsubscribe removes subs from the bound topic, or everything when subs is empty.
func (t *TopicHandle) Unsubscribe(subs ...cevt.Subscription) bool {
	return t.h.Unsubscribe(t.name, subs...)
}
