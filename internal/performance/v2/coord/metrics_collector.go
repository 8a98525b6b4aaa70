package coord

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a Barrier's per-point waiter/release counts to
// Prometheus, the same optional side-door metrics surface as data.Collector.
type Collector struct {
	barrier *Barrier

	waiters  *prometheus.Desc
	released *prometheus.Desc
}

// NewCollector wraps barrier for Prometheus registration.
func NewCollector(barrier *Barrier) *Collector {
	return &Collector{
		barrier: barrier,
		waiters: prometheus.NewDesc(
			"rampart_barrier_waiters",
			"VUs currently waiting at a rendezvous point.",
			[]string{"name"}, nil,
		),
		released: prometheus.NewDesc(
			"rampart_barrier_released_total",
			"Total VUs released from a rendezvous point.",
			[]string{"name"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.waiters
	ch <- c.released
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.barrier.AllStats() {
		ch <- prometheus.MustNewConstMetric(c.waiters, prometheus.GaugeValue, float64(st.Waiting), st.Name)
		ch <- prometheus.MustNewConstMetric(c.released, prometheus.CounterValue, float64(st.Released), st.Name)
	}
}
