package kafka_test

import (
	"context"
	"errors"
	"testing"

	"github.com/next-trace/scg-event-hub/adapters/kafka"
	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Unified Kafka adapter tests (single file).

type fakeWriter struct {
	calls []struct {
		topic   string
		key     []byte
		value   []byte
		headers map[string]string
	}
	err error
}

func (f *fakeWriter) Write(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	f.calls = append(f.calls, struct {
		topic   string
		key     []byte
		value   []byte
		headers map[string]string
	}{topic, key, value, headers})

	return f.err
}

func TestKafka_Forward_Defaults(t *testing.T) {
	fw := &fakeWriter{}
	ad := kafka.New(fw)

	env := cevt.Envelope{ID: "e-7", Topic: "squareMeter88", Args: []any{2000000}}
	if err := ad.Forward(t.Context(), env, cevt.ForwardOptions{Headers: map[string]string{"h": "1"}}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	if len(fw.calls) != 1 {
		t.Fatalf("want 1, got %d", len(fw.calls))
	}

	c := fw.calls[0]

	if c.topic != "events.squareMeter88" {
		t.Fatalf("topic: %s", c.topic)
	}

	if string(c.key) != "squareMeter88" {
		t.Fatalf("key: %s", string(c.key))
	}

	if len(c.value) == 0 {
		t.Fatalf("value empty")
	}

	if c.headers["h"] != "1" || c.headers["x-envelope-id"] != "e-7" {
		t.Fatalf("headers: %+v", c.headers)
	}
}

func TestKafka_Forward_OverrideAndKey(t *testing.T) {
	fw := &fakeWriter{}
	ad := kafka.New(fw)

	po := cevt.ForwardOptions{Subject: "evt.orders", Key: "key1"}
	if err := ad.Forward(t.Context(), cevt.Envelope{Topic: "order"}, po); err != nil {
		t.Fatalf("forward: %v", err)
	}

	p := fw.calls[0]
	if p.topic != "evt.orders" {
		t.Fatalf("topic: %s", p.topic)
	}

	if string(p.key) != "key1" {
		t.Fatalf("key: %s", string(p.key))
	}
}

func TestKafka_Errors(t *testing.T) {
	if err := kafka.New(nil).Forward(t.Context(), cevt.Envelope{}, cevt.ForwardOptions{}); !errors.Is(err, berr.ErrForwardNotConfigured) {
		t.Fatalf("want ErrForwardNotConfigured, got %v", err)
	}

	boom := errors.New("broker down")

	err := kafka.New(&fakeWriter{err: boom}).Forward(t.Context(), cevt.Envelope{Topic: "t"}, cevt.ForwardOptions{})
	if !errors.Is(err, berr.ErrForwardFailed) || !errors.Is(err, boom) {
		t.Fatalf("want ErrForwardFailed wrapping cause, got %v", err)
	}

	err = kafka.New(&fakeWriter{err: context.Canceled}).Forward(t.Context(), cevt.Envelope{Topic: "t"}, cevt.ForwardOptions{})
	if !errors.Is(err, context.Canceled) || errors.Is(err, berr.ErrForwardFailed) {
		t.Fatalf("context errors must pass through, got %v", err)
	}
}

func TestNewWithKgo_NoBrokers(t *testing.T) {
	_, _, err := kafka.NewWithKgo(kafka.Config{})
	if !errors.Is(err, berr.ErrForwardNotConfigured) {
		t.Fatalf("want ErrForwardNotConfigured, got %v", err)
	}
}
