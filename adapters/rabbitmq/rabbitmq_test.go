package rabbitmq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/next-trace/scg-event-hub/adapters/rabbitmq"
	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

type fakePublisher struct {
	msgs []rabbitmq.PubMsg
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, m rabbitmq.PubMsg) error {
	f.msgs = append(f.msgs, m)
	return f.err
}

type tracePropagator struct{}

func (tracePropagator) Inject(_ context.Context, headers map[string]string) {
	headers["traceparent"] = "00-abc-def-01"
}

func TestRabbitMQ_Forward(t *testing.T) {
	fp := &fakePublisher{}
	ad := rabbitmq.NewWithPropagator(fp, tracePropagator{})
	ad.Exchange = "events"

	callerHeaders := map[string]string{"h": "1"}
	env := cevt.Envelope{ID: "e-1", Topic: "loginSuc"}

	if err := ad.Forward(t.Context(), env, cevt.ForwardOptions{Key: "k", Headers: callerHeaders}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	if len(fp.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(fp.msgs))
	}

	m := fp.msgs[0]
	if m.Exchange != "events" || m.RoutingKey != "events.loginSuc" {
		t.Fatalf("routing: %s/%s", m.Exchange, m.RoutingKey)
	}

	for k, want := range map[string]string{"h": "1", "key": "k", "x-envelope-id": "e-1", "traceparent": "00-abc-def-01"} {
		if m.Headers[k] != want {
			t.Fatalf("header %s=%q, want %q", k, m.Headers[k], want)
		}
	}

	if len(callerHeaders) != 1 {
		t.Fatalf("caller headers mutated: %+v", callerHeaders)
	}
}

func TestRabbitMQ_RoutingOverride(t *testing.T) {
	fp := &fakePublisher{}
	ad := rabbitmq.New(fp)

	if err := ad.Forward(t.Context(), cevt.Envelope{Topic: "t"}, cevt.ForwardOptions{Subject: "custom.key"}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	if fp.msgs[0].RoutingKey != "custom.key" {
		t.Fatalf("routing key: %s", fp.msgs[0].RoutingKey)
	}
}

func TestRabbitMQ_Errors(t *testing.T) {
	if err := rabbitmq.New(nil).Forward(t.Context(), cevt.Envelope{}, cevt.ForwardOptions{}); !errors.Is(err, berr.ErrForwardNotConfigured) {
		t.Fatalf("want ErrForwardNotConfigured, got %v", err)
	}

	boom := errors.New("channel closed")

	err := rabbitmq.New(&fakePublisher{err: boom}).Forward(t.Context(), cevt.Envelope{Topic: "t"}, cevt.ForwardOptions{})
	if !errors.Is(err, berr.ErrForwardFailed) || !errors.Is(err, boom) {
		t.Fatalf("want ErrForwardFailed wrapping cause, got %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := rabbitmq.New(&fakePublisher{}).Forward(ctx, cevt.Envelope{}, cevt.ForwardOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRabbitMQ_DefaultPropagatorIsNop(t *testing.T) {
	fp := &fakePublisher{}
	ad := rabbitmq.New(fp)

	if _, ok := ad.Propagator.(cevt.NopHeaderPropagator); !ok {
		t.Fatalf("default propagator: %T", ad.Propagator)
	}

	if err := ad.Forward(t.Context(), cevt.Envelope{ID: "e-2", Topic: "t"}, cevt.ForwardOptions{}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	if got := fp.msgs[0].Headers; len(got) != 1 || got["x-envelope-id"] != "e-2" {
		t.Fatalf("headers: %+v", got)
	}

	ad.Propagator = nil
	if err := ad.Forward(t.Context(), cevt.Envelope{Topic: "t"}, cevt.ForwardOptions{}); err != nil {
		t.Fatalf("forward with nil propagator: %v", err)
	}

	if got := fp.msgs[1].Headers; len(got) != 0 {
		t.Fatalf("headers: %+v", got)
	}
}
