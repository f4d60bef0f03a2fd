package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Relay copies publishes on selected hub topics to a Forwarder.
// It is just another subscriber: forwarding happens in subscription order,
// synchronously, and a forwarding error is a subscriber fault like any other.
type Relay struct {
	hub  cevt.Hub
	fwd  cevt.Forwarder
	opts cevt.ForwardOptions

	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	mu   sync.Mutex
	subs []cevt.Subscription
}

// Option configures a Relay.
type Option func(*Relay)

// WithForwardOptions sets the routing options used for every envelope.
func WithForwardOptions(o cevt.ForwardOptions) Option {
	return func(r *Relay) { r.opts = o }
}

// WithLogger sets the relay logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) { r.logger = l }
}

// WithClock overrides the envelope timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// New creates a relay from hub to fwd. Nothing is forwarded until Attach.
func New(hub cevt.Hub, fwd cevt.Forwarder, opts ...Option) *Relay {
	r := &Relay{
		hub:    hub,
		fwd:    fwd,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}

	return r
}

// Attach starts forwarding the given topics.
func (r *Relay) Attach(topics ...string) error {
	if r.fwd == nil {
		return fmt.Errorf("relay attach: %w", berr.ErrForwardNotConfigured)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, topic := range topics {
		sub, err := r.hub.Subscribe(topic, r.forwarder(topic))
		if err != nil {
			return fmt.Errorf("relay attach %s: %w", topic, err)
		}

		r.subs = append(r.subs, sub)
		r.logger.Debug("relay attached", "topic", topic)
	}

	return nil
}

// Detach stops forwarding every attached topic.
func (r *Relay) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		r.hub.Unsubscribe(sub.Topic, sub)
	}

	r.subs = nil
}

// Topics returns the attached topics in attach order.
func (r *Relay) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.subs))
	for i, s := range r.subs {
		out[i] = s.Topic
	}

	return out
}

func (r *Relay) forwarder(topic string) cevt.Callback {
	return func(ctx context.Context, args ...any) error {
		env := cevt.Envelope{
			ID:          r.newID(),
			Topic:       topic,
			Args:        append([]any(nil), args...),
			PublishedAt: r.now().UTC(),
		}

		if err := r.fwd.Forward(ctx, env, r.opts); err != nil {
			r.logger.WarnContext(ctx, "relay forward failed", "topic", topic, "id", env.ID, "err", err)
			return err
		}

		return nil
	}
}
