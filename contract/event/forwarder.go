package event

import "context"

// Forwarder ships envelopes to something outside the process.
// Library users provide an implementation backed by NATS, Kafka, RabbitMQ etc.
type Forwarder interface {
	Forward(ctx context.Context, env Envelope, opts ForwardOptions) error
}

// Observer is notified after each publish call that reached at least one subscriber.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObservePublish(topic string, delivered int, err error)
}
