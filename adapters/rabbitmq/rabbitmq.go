package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"maps"

	json "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

const (
	routingPrefix  = "events."
	headerEnvelope = "x-envelope-id"
)

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

type Adapter struct {
	Publisher  Publisher
	Exchange   string
	Propagator cevt.HeaderPropagator // nil means event.NopHeaderPropagator
}

var _ cevt.Forwarder = (*Adapter)(nil)

func New(p Publisher) *Adapter { return NewWithPropagator(p, nil) }

// NewWithPropagator configures a HeaderPropagator for context propagation.
// A nil hp falls back to event.NopHeaderPropagator.
func NewWithPropagator(p Publisher, hp cevt.HeaderPropagator) *Adapter {
	if hp == nil {
		hp = cevt.NopHeaderPropagator{}
	}

	return &Adapter{Publisher: p, Propagator: hp}
}

func (a *Adapter) Forward(ctx context.Context, env cevt.Envelope, opts cevt.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq forward: %w", berr.ErrForwardNotConfigured)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("rabbitmq forward serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	// copy headers to avoid mutating caller-provided map
	hdrs := make(map[string]string, len(opts.Headers)+4)
	maps.Copy(hdrs, opts.Headers)

	if env.ID != "" {
		hdrs[headerEnvelope] = env.ID
	}

	if opts.Key != "" {
		hdrs["key"] = opts.Key
	}

	a.propagator().Inject(ctx, hdrs)

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: routingFor(env, opts),
		Body:       body,
		Headers:    hdrs,
	}
	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq forward publish: %w", errors.Join(berr.ErrForwardFailed, err))
	}

	return nil
}

func (a *Adapter) propagator() cevt.HeaderPropagator {
	if a.Propagator == nil {
		return cevt.NopHeaderPropagator{}
	}

	return a.Propagator
}

func routingFor(env cevt.Envelope, o cevt.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	return routingPrefix + env.Topic
}

func toTable(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}

	h := amqp.Table{}
	for k, v := range headers {
		h[k] = v
	}

	return h
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			Headers:     toTable(m.Headers),
			Body:        m.Body,
			ContentType: "application/json",
		},
	)
}

// NewWithAMQPChannel wraps an already open channel. Envelopes go to exchange.
func NewWithAMQPChannel(ch *amqp.Channel, exchange string) *Adapter {
	ad := New(amqpChannelPublisher{ch: ch})
	ad.Exchange = exchange

	return ad
}
