// Package metrics exports engine telemetry as Prometheus collectors. Add a
// Collector as a plugin; it counts clock ticks, tracks the tree size and
// tallies the events that bubble up to the root.
package metrics

import (
	"net/http"

	"github.com/phanxgames/repeater"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RootEvents are the event names counted by default when they reach the
// root node.
var RootEvents = []string{
	repeater.EventClick,
	repeater.EventPointerDown,
	repeater.EventPointerUp,
	repeater.EventDragStart,
	repeater.EventDragEnd,
	repeater.EventCollisionStart,
	repeater.EventCollisionEnd,
}

// Collector is an engine plugin backed by its own Prometheus registry.
type Collector struct {
	registry *prometheus.Registry
	events   []string

	ticks       *prometheus.CounterVec
	rootEvents  *prometheus.CounterVec
	nodes       prometheus.Gauge
	updateDelta prometheus.Histogram

	slots []*repeater.Slot
}

// NewCollector creates a collector under namespace ("repeater" when empty)
// counting the given root events, or RootEvents when none are given.
func NewCollector(namespace string, events ...string) *Collector {
	if namespace == "" {
		namespace = "repeater"
	}
	if len(events) == 0 {
		events = RootEvents
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		events:   events,
	}

	c.ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clock",
			Name:      "ticks_total",
			Help:      "Clock ticks by kind (fixed, update)",
		},
		[]string{"kind"},
	)

	c.rootEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "root_events_total",
			Help:      "Events that propagated up to the root node",
		},
		[]string{"event"},
	)

	c.nodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tree",
		Name:      "nodes",
		Help:      "Nodes attached below the root, root included",
	})

	c.updateDelta = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "clock",
		Name:      "update_delta_seconds",
		Help:      "Delta passed to update ticks",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
	})

	c.registry.MustRegister(c.ticks, c.rootEvents, c.nodes, c.updateDelta)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Load implements repeater.Plugin.
func (c *Collector) Load(*repeater.Engine) error { return nil }

// Init implements repeater.Plugin. It hooks the clock and the root node.
func (c *Collector) Init(e *repeater.Engine) error {
	clock := e.Clock()
	c.slots = append(c.slots,
		clock.OnFixedUpdate(func() { c.ticks.WithLabelValues("fixed").Inc() }),
		clock.OnUpdate(func() {
			c.ticks.WithLabelValues("update").Inc()
			c.updateDelta.Observe(clock.Delta())
			c.nodes.Set(float64(countNodes(e.Root())))
		}),
	)
	for _, name := range c.events {
		counter := c.rootEvents.WithLabelValues(name)
		e.Root().On(name, func(repeater.Event) { counter.Inc() })
	}
	return nil
}

// Close detaches the clock hooks. Root listeners stay until the root is
// destroyed.
func (c *Collector) Close() {
	for _, s := range c.slots {
		s.Off()
	}
	c.slots = nil
}

func countNodes(root *repeater.Node) int {
	n := 0
	root.Walk(func(*repeater.Node) bool {
		n++
		return true
	})
	return n
}
