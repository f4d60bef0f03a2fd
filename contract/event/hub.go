package event

import "context"

// Callback receives the arguments passed to Publish, positionally.
// A non-nil error is a subscriber fault.
type Callback func(ctx context.Context, args ...any) error

// Subscription identifies one registration on a topic.
// Subscribing the same Callback twice yields two distinct subscriptions.
type Subscription struct {
	Topic string
	ID    uint64
}

// Hub is the tech-agnostic publish/subscribe contract.
//
// Publish reports false when the topic has no subscribers. Unsubscribe with no
// subscriptions clears the whole topic.
type Hub interface {
	Subscribe(topic string, fn Callback) (Subscription, error)
	Publish(ctx context.Context, topic string, args ...any) (bool, error)
	Unsubscribe(topic string, subs ...Subscription) bool
}

// Carrier is implemented by values that can be given their own Hub.
// Installing a hub gives the carrier publish/subscribe behaviour without
// making it a subtype of any hub type.
type Carrier interface {
	InstallHub(h Hub)
}
