// Package prom adapts qcache's cache.Metrics interface to Prometheus.
package prom

import (
	"github.com/aismail/qcache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges
// for the cache's Counters component. Safe for concurrent use; all
// Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	sets   prometheus.Counter
	evicts prometheus.Counter
	freed  prometheus.Counter

	sizeEntries prometheus.Gauge
	sizeBytes   prometheus.Gauge
	usedPct     prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "hits_total",
			Help: "Cache hits (cntGetOK)", ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "misses_total",
			Help: "Cache misses", ConstLabels: constLabels,
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "sets_total",
			Help: "Cache inserts/replacements (cntSet)", ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "evictions_total",
			Help: "Entries reclaimed by the purge loop (cntPurge)", ConstLabels: constLabels,
		}),
		freed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "freed_bytes_total",
			Help: "Value bytes freed by the purge loop (total_freed_memory)", ConstLabels: constLabels,
		}),
		sizeEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "size_entries",
			Help: "Number of resident entries (num_entries)", ConstLabels: constLabels,
		}),
		sizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "size_bytes",
			Help: "Total resident value bytes (size_values)", ConstLabels: constLabels,
		}),
		usedPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "used_memory_pct",
			Help: "current_used_memory_pct against MaxMemorySize", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.sets, a.evicts, a.freed, a.sizeEntries, a.sizeBytes, a.usedPct)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Set increments the set counter.
func (a *Adapter) Set() { a.sets.Inc() }

// Evict accumulates a reclaimer pass's removed-entry and freed-byte counts.
func (a *Adapter) Evict(n int, freedBytes uint64) {
	if n > 0 {
		a.evicts.Add(float64(n))
	}
	if freedBytes > 0 {
		a.freed.Add(float64(freedBytes))
	}
}

// Size updates the resident-size and memory-pressure gauges.
func (a *Adapter) Size(entries int, bytes uint64, usedPct int) {
	a.sizeEntries.Set(float64(entries))
	a.sizeBytes.Set(float64(bytes))
	a.usedPct.Set(float64(usedPct))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
