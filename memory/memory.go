// Package memory wires a hub to an in-memory forwarder for tests and demos.
package memory

import (
	"github.com/next-trace/scg-event-hub/adapters/inmemory"
	"github.com/next-trace/scg-event-hub/eventhub"
	"github.com/next-trace/scg-event-hub/relay"
)

// New constructs a hub whose topics are relayed into an in-memory forwarder.
// The cleanup detaches the relay; the hub stays usable afterwards.
func New(topics []string, opts ...eventhub.Option) (*eventhub.Hub, *inmemory.Forwarder, func(), error) {
	hub := eventhub.New(opts...)
	fwd := inmemory.New()

	r := relay.New(hub, fwd)
	if err := r.Attach(topics...); err != nil {
		r.Detach()
		return nil, nil, nil, err
	}

	return hub, fwd, r.Detach, nil
}
