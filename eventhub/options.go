package eventhub

import (
	"log/slog"

	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Option configures a Hub instance.
type Option func(*Hub)

// WithLogger sets the logger used for subscription and fault records.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithFaultIsolation makes Publish keep delivering after a subscriber fails.
// Panics are recovered and every fault is collected into the returned error.
func WithFaultIsolation() Option {
	return func(h *Hub) { h.isolate = true }
}

// WithObserver registers an observer notified after each delivering publish.
func WithObserver(o cevt.Observer) Option {
	return func(h *Hub) { h.observer = o }
}
