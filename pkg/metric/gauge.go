package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Gauge tracks a single value that can go up and down.
type Gauge struct {
	Name string
	Help string

	g prometheus.Gauge
}

// Set replaces the gauge value.
func (g *Gauge) Set(v float64) {
	if g == nil {
		return
	}
	g.g.Set(v)
}

// Value returns the current gauge value.
func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	return value(g.g)
}

// NewGauge registers a namespaced gauge with reg.
func NewGauge(reg prometheus.Registerer, name, help string) *Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	})

	reg.MustRegister(g)

	return &Gauge{
		Name: prometheus.BuildFQName(Namespace, "", name),
		Help: help,
		g:    g,
	}
}

func value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return 0
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}
