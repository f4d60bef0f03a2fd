package eventhub

import (
	"context"
	"fmt"
	"sync"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// SubscribeOf registers a callback that receives the first published argument as a T.
// Publishing anything else on topic is reported as ErrArgumentMismatch.
func SubscribeOf[T any](h cevt.Hub, topic string, fn func(ctx context.Context, v T) error) (cevt.Subscription, error) {
	if fn == nil {
		return cevt.Subscription{}, fmt.Errorf("subscribe %s: %w", topic, berr.ErrCallbackRequired)
	}

	return h.Subscribe(topic, typed(topic, fn))
}

// OnceOf is Once for a callback that receives the first published argument as a T.
// A mismatched publish still consumes the subscription.
func OnceOf[T any](h cevt.Hub, topic string, fn func(ctx context.Context, v T) error) (cevt.Subscription, error) {
	if fn == nil {
		return cevt.Subscription{}, fmt.Errorf("subscribe %s: %w", topic, berr.ErrCallbackRequired)
	}

	return Once(h, topic, typed(topic, fn))
}

func typed[T any](topic string, fn func(ctx context.Context, v T) error) cevt.Callback {
	return func(ctx context.Context, args ...any) error {
		var zero T
		if len(args) == 0 {
			return fmt.Errorf("deliver %s: no argument for %T: %w", topic, zero, berr.ErrArgumentMismatch)
		}

		v, ok := args[0].(T)
		if !ok {
			return fmt.Errorf("deliver %s: %T is not %T: %w", topic, args[0], zero, berr.ErrArgumentMismatch)
		}

		return fn(ctx, v)
	}
}

// Once registers fn for a single delivery. The subscription removes itself
// before fn runs, so a re-entrant publish from fn does not reach it again.
func Once(h cevt.Hub, topic string, fn cevt.Callback) (cevt.Subscription, error) {
	if fn == nil {
		return cevt.Subscription{}, fmt.Errorf("subscribe %s: %w", topic, berr.ErrCallbackRequired)
	}

	var (
		once sync.Once
		mu   sync.Mutex
		sub  cevt.Subscription
	)

	mu.Lock()
	defer mu.Unlock()

	s, err := h.Subscribe(topic, func(ctx context.Context, args ...any) error {
		fired := false
		once.Do(func() {
			fired = true

			mu.Lock()
			self := sub
			mu.Unlock()

			h.Unsubscribe(topic, self)
		})

		if !fired {
			return nil
		}

		return fn(ctx, args...)
	})
	if err != nil {
		return cevt.Subscription{}, err
	}

	sub = s

	return s, nil
}
