package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric registered by this package.
const Namespace = "menued"

// IncrementalCounter counts events by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is a prometheus CounterVec behind IncrementalCounter.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by val.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// Value returns the current count of the series identified by val.
func (c *Counter) Value(val ...string) float64 {
	return value(c.vec.WithLabelValues(val...))
}

// NewCounter registers a namespaced counter with reg.
func NewCounter(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(vec)

	return &Counter{
		Name: prometheus.BuildFQName(Namespace, "", name),
		Help: help,
		vec:  vec,
	}
}

// Discard is an IncrementalCounter that drops every event.
var Discard IncrementalCounter = discard{}

type discard struct{}

func (discard) Increment(...string) {}
