// Package metrics exports hub and chain activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/next-trace/scg-event-hub/chain"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
)

// Collector implements event.Observer and chain.Observer.
type Collector struct {
	publishes  *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	faults     *prometheus.CounterVec
	invokes    *prometheus.CounterVec
}

var (
	_ cevt.Observer  = (*Collector)(nil)
	_ chain.Observer = (*Collector)(nil)
)

// New creates a Collector and registers its metrics with reg under namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "publishes_total",
			Help:      "Publish calls that reached at least one subscriber.",
		}, []string{"topic"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "deliveries_total",
			Help:      "Subscriber calls that returned without error.",
		}, []string{"topic"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "publish_faults_total",
			Help:      "Publish calls that returned a subscriber fault.",
		}, []string{"topic"}),
		invokes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "invocations_total",
			Help:      "Chain invocations by resolving handler; outcome is resolved, unhandled or fault.",
		}, []string{"chain", "handler", "outcome"}),
	}

	for _, col := range []prometheus.Collector{c.publishes, c.deliveries, c.faults, c.invokes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObservePublish implements event.Observer.
func (c *Collector) ObservePublish(topic string, delivered int, err error) {
	c.publishes.WithLabelValues(topic).Inc()
	c.deliveries.WithLabelValues(topic).Add(float64(delivered))

	if err != nil {
		c.faults.WithLabelValues(topic).Inc()
	}
}

// ObserveInvoke implements chain.Observer.
func (c *Collector) ObserveInvoke(chainName, resolvedBy string, err error) {
	outcome := "resolved"

	switch {
	case err != nil:
		outcome = "fault"
	case resolvedBy == "":
		outcome = "unhandled"
	}

	c.invokes.WithLabelValues(chainName, resolvedBy, outcome).Inc()
}
