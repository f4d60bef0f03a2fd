package event

import "context"

// HeaderPropagator copies request-scoped context, such as a trace id, into
// outbound envelope headers. Implementations must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator leaves headers untouched. Forwarders use it when no
// propagator is configured.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(context.Context, map[string]string) {}
