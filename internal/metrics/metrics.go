// Package metrics exposes Prometheus instrumentation for draws.
package metrics

import (
	"net/http"

	"github.com/dyluth/roulette/internal/round"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "roulette"

// Collector records draw outcomes. Each Collector owns a private registry,
// so tests and multiple servers in one process never collide.
type Collector struct {
	reg *prometheus.Registry

	roundsDrawn     *prometheus.CounterVec
	groupsTotal     prometheus.Counter
	repeatGroups    prometheus.Counter
	participants    prometheus.Histogram
	roundConflicts  prometheus.Counter
	uploadsRejected prometheus.Counter
}

// NewCollector creates a collector with Go runtime and process collectors
// registered alongside the draw metrics.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		roundsDrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rounds_drawn_total",
			Help:      "Rounds drawn, by grouping strategy",
		}, []string{"strategy"}),
		groupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "groups_total",
			Help:      "Groups emitted across all rounds",
		}),
		repeatGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "repeat_groups_total",
			Help:      "Emitted groups containing a pair that had met in an earlier round",
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "participants",
			Help:      "Participants per drawn round",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
		}),
		roundConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "round_conflicts_total",
			Help:      "Round appends rejected because the roster changed concurrently",
		}),
		uploadsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "uploads_rejected_total",
			Help:      "Uploaded rosters rejected as unreadable or invalid",
		}),
	}

	c.reg.MustRegister(
		c.roundsDrawn,
		c.groupsTotal,
		c.repeatGroups,
		c.participants,
		c.roundConflicts,
		c.uploadsRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveRound records one successful draw.
func (c *Collector) ObserveRound(res *round.Result) {
	members := 0
	for _, g := range res.Groups {
		members += len(g.Members)
	}

	c.roundsDrawn.WithLabelValues(res.Strategy).Inc()
	c.groupsTotal.Add(float64(len(res.Groups)))
	c.repeatGroups.Add(float64(res.Repeats))
	c.participants.Observe(float64(members))
}

// RoundConflict records a rejected round append.
func (c *Collector) RoundConflict() {
	c.roundConflicts.Inc()
}

// UploadRejected records a roster that failed to parse or validate.
func (c *Collector) UploadRejected() {
	c.uploadsRejected.Inc()
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}
