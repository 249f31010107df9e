// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "mdd"

// Collector exports the counters of an Arena as Prometheus metrics. An Arena
// is not safe for concurrent use, so the collector never reads it during a
// scrape: the goroutine that owns the arena publishes a snapshot with Update,
// and Collect reports the last published snapshot.
type Collector struct {
	arena *Arena
	mu    sync.Mutex
	last  ArenaStats

	allocated *prometheus.Desc
	live      *prometheus.Desc
	produced  *prometheus.Desc
	freed     *prometheus.Desc
	resizes   *prometheus.Desc
	reduced   *prometheus.Desc
	merged    *prometheus.Desc
	states    *prometheus.Desc
	stateAll  *prometheus.Desc
	params    *prometheus.Desc
}

// NewCollector returns a collector for arena a. All the metrics carry a label
// arena with value name.
func NewCollector(a *Arena, name string) *Collector {
	labels := prometheus.Labels{"arena": name}
	desc := func(sub, metric, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, sub, metric), help, variable, labels)
	}
	c := &Collector{
		arena:     a,
		allocated: desc("arena", "nodes_allocated", "Number of slots in the node table."),
		live:      desc("arena", "nodes_live", "Number of nodes in use."),
		produced:  desc("arena", "nodes_produced_total", "Number of nodes ever allocated."),
		freed:     desc("arena", "nodes_freed_total", "Number of nodes ever released."),
		resizes:   desc("arena", "resizes_total", "Number of extensions of the node table."),
		reduced:   desc("reduce", "calls_total", "Number of reductions."),
		merged:    desc("reduce", "nodes_merged_total", "Number of nodes merged with an equivalent node."),
		states:    desc("pool", "states_live", "Number of automaton states in use.", "kind"),
		stateAll:  desc("pool", "states_allocated_total", "Number of automaton states ever allocated.", "kind"),
		params:    desc("pool", "params_live", "Number of constraint parameters in use.", "kind"),
	}
	c.Update()
	return c
}

// Update publishes the current counters of the arena. It must be called from
// the goroutine that owns the arena.
func (c *Collector) Update() {
	s := c.arena.Snapshot()
	c.mu.Lock()
	c.last = s
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.allocated, c.live, c.produced, c.freed, c.resizes, c.reduced, c.merged, c.states, c.stateAll, c.params} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	s := c.last
	c.mu.Unlock()
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.GaugeValue, float64(s.Allocated))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.Live))
	ch <- prometheus.MustNewConstMetric(c.produced, prometheus.CounterValue, float64(s.Produced))
	ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(s.Freed))
	ch <- prometheus.MustNewConstMetric(c.resizes, prometheus.CounterValue, float64(s.Resizes))
	ch <- prometheus.MustNewConstMetric(c.reduced, prometheus.CounterValue, float64(s.Reduced))
	ch <- prometheus.MustNewConstMetric(c.merged, prometheus.CounterValue, float64(s.Merged))
	for k, ps := range s.States {
		ch <- prometheus.MustNewConstMetric(c.states, prometheus.GaugeValue, float64(ps.Live), k.String())
		ch <- prometheus.MustNewConstMetric(c.stateAll, prometheus.CounterValue, float64(ps.Allocated), k.String())
	}
	for k, ps := range s.Params {
		ch <- prometheus.MustNewConstMetric(c.params, prometheus.GaugeValue, float64(ps.Live), k.String())
	}
}
