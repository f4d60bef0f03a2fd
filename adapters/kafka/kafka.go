package kafka

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

const (
	topicPrefix    = "events."
	headerEnvelope = "x-envelope-id"
)

// Writer is a minimal Kafka-like writer interface.
// Users can adapt franz-go (see NewWithKgo) or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements event.Forwarder using an injected Writer.
type Adapter struct {
	Writer Writer
}

var _ cevt.Forwarder = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// Forward writes env to its Kafka topic. The record key is opts.Key, or the
// envelope topic when no key is given, so one hub topic stays on one partition.
func (a *Adapter) Forward(ctx context.Context, env cevt.Envelope, opts cevt.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka forward: %w", berr.ErrForwardNotConfigured)
	}

	val, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("kafka forward serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	if err = a.Writer.Write(ctx, topicFor(env, opts), keyFor(env, opts), val, headersFor(env, opts)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka forward write: %w", errors.Join(berr.ErrForwardFailed, err))
	}

	return nil
}

// helpers (duplicated for simplicity and test isolation)

func topicFor(env cevt.Envelope, o cevt.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	return topicPrefix + env.Topic
}

func keyFor(env cevt.Envelope, o cevt.ForwardOptions) []byte {
	if o.Key != "" {
		return []byte(o.Key)
	}

	return []byte(env.Topic)
}

func headersFor(env cevt.Envelope, o cevt.ForwardOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		h[k] = v
	}

	if env.ID != "" {
		h[headerEnvelope] = env.ID
	}

	return h
}
