package eventhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Hub is an in-process topic registry with ordered, synchronous delivery.
//
// Publish iterates a snapshot of the subscriber list taken at call start, so
// subscribing or unsubscribing from inside a callback takes effect on the next
// publish. Hub is concurrency-safe and contains no global state. The zero value
// is ready to use.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string][]entry
	nextID uint64

	isolate  bool
	observer cevt.Observer
	logger   *slog.Logger
}

type entry struct {
	id uint64
	fn cevt.Callback
}

var _ cevt.Hub = (*Hub)(nil)

// New constructs a Hub configured by opts.
func New(opts ...Option) *Hub {
	h := &Hub{subs: make(map[string][]entry)}
	for _, o := range opts {
		o(h)
	}

	return h
}

// Subscribe appends fn to the subscriber list of topic, creating the list on first use.
// The same fn may be subscribed more than once; each registration is delivered separately.
func (h *Hub) Subscribe(topic string, fn cevt.Callback) (cevt.Subscription, error) {
	if topic == "" {
		return cevt.Subscription{}, fmt.Errorf("subscribe: %w", berr.ErrTopicRequired)
	}

	if fn == nil {
		return cevt.Subscription{}, fmt.Errorf("subscribe %s: %w", topic, berr.ErrCallbackRequired)
	}

	h.mu.Lock()
	if h.subs == nil {
		h.subs = make(map[string][]entry)
	}

	h.nextID++
	sub := cevt.Subscription{Topic: topic, ID: h.nextID}
	h.subs[topic] = append(h.subs[topic], entry{id: sub.ID, fn: fn})
	n := len(h.subs[topic])
	h.mu.Unlock()

	h.log().Debug("subscribed", "topic", topic, "id", sub.ID, "subscribers", n)

	return sub, nil
}

// Publish delivers args to every subscriber of topic in subscription order.
// It returns false, with no side effects, when the topic has no subscribers.
//
// By default the first subscriber error stops delivery and is returned as a
// *FaultError. With WithFaultIsolation every subscriber is called, panics are
// recovered, and all faults are returned together (see multierr.Errors).
func (h *Hub) Publish(ctx context.Context, topic string, args ...any) (bool, error) {
	h.mu.RLock()
	entries := append([]entry(nil), h.subs[topic]...)
	h.mu.RUnlock()

	if len(entries) == 0 {
		return false, nil
	}

	var (
		err       error
		delivered int
	)

	if h.isolate {
		delivered, err = h.deliverIsolated(ctx, topic, entries, args)
	} else {
		delivered, err = h.deliver(ctx, topic, entries, args)
	}

	if err != nil {
		h.log().Warn("publish fault", "topic", topic, "delivered", delivered, "err", err)
	}

	if h.observer != nil {
		h.observer.ObservePublish(topic, delivered, err)
	}

	return true, err
}

func (h *Hub) deliver(ctx context.Context, topic string, entries []entry, args []any) (int, error) {
	for i, ent := range entries {
		if err := ent.fn(ctx, args...); err != nil {
			return i, &FaultError{Subscription: cevt.Subscription{Topic: topic, ID: ent.id}, Err: err}
		}
	}

	return len(entries), nil
}

func (h *Hub) deliverIsolated(ctx context.Context, topic string, entries []entry, args []any) (int, error) {
	var (
		errs      error
		delivered int
	)

	for _, ent := range entries {
		if err := callRecovered(ctx, ent.fn, args); err != nil {
			errs = multierr.Append(errs, &FaultError{Subscription: cevt.Subscription{Topic: topic, ID: ent.id}, Err: err})
			continue
		}

		delivered++
	}

	return delivered, errs
}

func callRecovered(ctx context.Context, fn cevt.Callback, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn(ctx, args...)
}

// Unsubscribe removes subs from topic. With no subs every subscriber of topic is removed.
// Unknown subscriptions are ignored. It returns false when topic had no subscribers.
func (h *Hub) Unsubscribe(topic string, subs ...cevt.Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.subs[topic]
	if len(entries) == 0 {
		return false
	}

	if len(subs) == 0 {
		delete(h.subs, topic)
		h.log().Debug("unsubscribed all", "topic", topic, "removed", len(entries))

		return true
	}

	kept := make([]entry, 0, len(entries))
	for _, ent := range entries {
		if !matches(subs, topic, ent.id) {
			kept = append(kept, ent)
		}
	}

	if len(kept) == 0 {
		delete(h.subs, topic)
	} else {
		h.subs[topic] = kept
	}

	h.log().Debug("unsubscribed", "topic", topic, "removed", len(entries)-len(kept))

	return true
}

func matches(subs []cevt.Subscription, topic string, id uint64) bool {
	for _, s := range subs {
		if s.ID == id && (s.Topic == "" || s.Topic == topic) {
			return true
		}
	}

	return false
}

// Topics returns the topics that currently have subscribers, in no particular order.
func (h *Hub) Topics() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.subs))
	for t := range h.subs {
		out = append(out, t)
	}

	return out
}

// Len returns the number of subscriptions registered on topic.
func (h *Hub) Len(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[topic])
}

func (h *Hub) log() *slog.Logger {
	if h.logger == nil {
		return discard
	}

	return h.logger
}

var discard = slog.New(slog.DiscardHandler)

// FaultError reports a subscriber that failed during Publish.
type FaultError struct {
	Subscription cevt.Subscription
	Err          error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("publish %s: subscriber %d: %v", e.Subscription.Topic, e.Subscription.ID, e.Err)
}

// Unwrap returns the subscriber's own error.
func (e *FaultError) Unwrap() error { return e.Err }

// Is matches ErrHandlerFault. Unwrap must stay single-valued: multierr.Errors
// splits any error that unwraps to a slice.
func (e *FaultError) Is(target error) bool { return target == berr.ErrHandlerFault }

// Faults returns the individual subscriber faults carried by err.
func Faults(err error) []*FaultError {
	var out []*FaultError

	for _, e := range multierr.Errors(err) {
		var fe *FaultError
		if errors.As(e, &fe) {
			out = append(out, fe)
		}
	}

	return out
}
