package repositorycache

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache activity per entity kind.
type Metrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Evictions *prometheus.CounterVec
	// Fetches counts read-through catalog loads from storage.
	Fetches *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siga",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Lookups served from the identity cache.",
		}, []string{"entity"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siga",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Lookups that had to query storage.",
		}, []string{"entity"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siga",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries removed after a confirmed delete.",
		}, []string{"entity"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siga",
			Subsystem: "catalog",
			Name:      "fetches_total",
			Help:      "Catalog lookups that missed the read-through cache.",
		}, []string{"entity"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Hits, m.Misses, m.Evictions, m.Fetches} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) hit(entity string) {
	if m != nil {
		m.Hits.WithLabelValues(entity).Inc()
	}
}

func (m *Metrics) miss(entity string) {
	if m != nil {
		m.Misses.WithLabelValues(entity).Inc()
	}
}

func (m *Metrics) evict(entity string) {
	if m != nil {
		m.Evictions.WithLabelValues(entity).Inc()
	}
}

// Fetched records a catalog load from storage. It is safe on a nil Metrics.
func (m *Metrics) Fetched(entity string) {
	if m != nil {
		m.Fetches.WithLabelValues(entity).Inc()
	}
}
