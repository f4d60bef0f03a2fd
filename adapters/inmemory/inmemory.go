package inmemory

import (
	"context"
	"sync"

	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Forwarder is a thread-safe in-memory implementation of event.Forwarder.
// It records forwarded envelopes for testing and examples.
type Forwarder struct {
	mu        sync.Mutex
	envelopes []cevt.Envelope
	opts      []cevt.ForwardOptions
}

// Ensure Forwarder implements the contract.
var _ cevt.Forwarder = (*Forwarder)(nil)

// New creates a new in-memory forwarder.
func New() *Forwarder { return &Forwarder{} }

func (f *Forwarder) Forward(ctx context.Context, env cevt.Envelope, opts cevt.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.envelopes = append(f.envelopes, env)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()

	return nil
}

// Envelopes returns a copy of everything forwarded so far.
func (f *Forwarder) Envelopes() []cevt.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]cevt.Envelope(nil), f.envelopes...)
}

// Options returns the forward options recorded alongside each envelope.
func (f *Forwarder) Options() []cevt.ForwardOptions {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]cevt.ForwardOptions(nil), f.opts...)
}

// Reset drops all recordings.
func (f *Forwarder) Reset() {
	f.mu.Lock()
	f.envelopes = nil
	f.opts = nil
	f.mu.Unlock()
}
