package data

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes Registry-wide provider counters to Prometheus. It is an
// optional, side-door metrics surface the harness can register independent
// of the in-process metrics.Engine HDR histograms, which remain the source
// of truth for latency. Grounded on oriys-nova's prometheus.Collector-style
// gauge/counter instrumentation (internal/metrics/prometheus.go).
type Collector struct {
	registry *Registry

	rowsCheckedOut *prometheus.Desc
	exhausted      *prometheus.Desc
}

// NewCollector wraps registry for Prometheus registration.
func NewCollector(registry *Registry) *Collector {
	return &Collector{
		registry: registry,
		rowsCheckedOut: prometheus.NewDesc(
			"rampart_provider_rows_checked_out",
			"Rows currently checked out from a scope=unique provider.",
			[]string{"fingerprint"}, nil,
		),
		exhausted: prometheus.NewDesc(
			"rampart_provider_exhausted",
			"Whether a provider is currently in an exhausted state (1) or not (0).",
			[]string{"fingerprint"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rowsCheckedOut
	ch <- c.exhausted
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for fp, p := range c.registry.snapshot() {
		st := p.Status()
		ch <- prometheus.MustNewConstMetric(c.rowsCheckedOut, prometheus.GaugeValue, float64(st.CheckedOut), fp)

		exhausted := 0.0
		if st.Exhausted {
			exhausted = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.exhausted, prometheus.GaugeValue, exhausted, fp)
	}
}
