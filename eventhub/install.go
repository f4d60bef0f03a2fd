package eventhub

import (
	"context"
	"sync"

	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Install gives target a fresh Hub built from opts and returns target.
// Every call creates new storage, so two installed targets never share subscribers.
func Install[T cevt.Carrier](target T, opts ...Option) T {
	target.InstallHub(New(opts...))
	return target
}

// Mixin is embedded into a host struct to give it Subscribe, Publish and
// Unsubscribe:
//
//	type SalesOffice struct {
//		eventhub.Mixin
//		Name string
//	}
//
//	office := eventhub.Install(&SalesOffice{Name: "downtown"})
//	office.Subscribe("squareMeter88", fn)
//
// A host used without Install gets a default Hub on first use.
// Mixin must not be copied after first use.
type Mixin struct {
	cevt.Hub

	mu sync.Mutex
}

var _ cevt.Hub = (*Mixin)(nil)

// InstallHub implements event.Carrier.
func (m *Mixin) InstallHub(h cevt.Hub) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Hub = h
}

// Installed reports whether the host has a hub, installed or created on first use.
func (m *Mixin) Installed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Hub != nil
}

func (m *Mixin) Subscribe(topic string, fn cevt.Callback) (cevt.Subscription, error) {
	return m.hub().Subscribe(topic, fn)
}

func (m *Mixin) Publish(ctx context.Context, topic string, args ...any) (bool, error) {
	return m.hub().Publish(ctx, topic, args...)
}

func (m *Mixin) Unsubscribe(topic string, subs ...cevt.Subscription) bool {
	return m.hub().Unsubscribe(topic, subs...)
}

func (m *Mixin) hub() cevt.Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Hub == nil {
		m.Hub = New()
	}

	return m.Hub
}
