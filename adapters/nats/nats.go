package nats

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

const (
	// DefaultSubjectPrefix is prepended to the hub topic when no subject override is set.
	DefaultSubjectPrefix = "events."
	headerEnvelope       = "x-envelope-id"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements event.Forwarder using an injected NATS-like Client.
// Envelopes go to Prefix+topic; an empty Prefix means DefaultSubjectPrefix.
type Adapter struct {
	Client Client
	Prefix string
}

// Ensure Adapter implements the contract.
var _ cevt.Forwarder = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

func (a *Adapter) Forward(ctx context.Context, env cevt.Envelope, opts cevt.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats forward: %w", berr.ErrForwardNotConfigured)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("nats forward serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	if err := a.Client.Publish(a.subjectFor(env, opts), body, headersFor(env, opts)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats forward publish: %w", errors.Join(berr.ErrForwardFailed, err))
	}

	return nil
}

// helpers

func (a *Adapter) subjectFor(env cevt.Envelope, o cevt.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	if a.Prefix == "" {
		return DefaultSubjectPrefix + env.Topic
	}

	return a.Prefix + env.Topic
}

func headersFor(env cevt.Envelope, o cevt.ForwardOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+2)
	for k, v := range o.Headers {
		h[k] = v
	}

	if env.ID != "" {
		h[headerEnvelope] = env.ID
	}

	if o.Key != "" {
		h["key"] = o.Key
	}

	return h
}
