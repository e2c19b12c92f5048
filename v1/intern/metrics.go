// Copyright 2025 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a SyncInterner's traffic to Prometheus: distinct entries
// as a gauge, hits and misses as counters. Register one collector per
// interner:
//
//	prometheus.MustRegister(intern.NewCollector("vocab", si))
type Collector struct {
	in      *SyncInterner
	entries *prometheus.Desc
	hits    *prometheus.Desc
	misses  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector for in. name distinguishes interners
// within one registry and becomes the value of the "interner" label.
func NewCollector(name string, in *SyncInterner) *Collector {
	labels := prometheus.Labels{"interner": name}
	return &Collector{
		in: in,
		entries: prometheus.NewDesc(
			"strintern_entries",
			"Number of distinct strings currently interned.",
			nil, labels,
		),
		hits: prometheus.NewDesc(
			"strintern_hits_total",
			"Intern calls that reused an existing allocation.",
			nil, labels,
		),
		misses: prometheus.NewDesc(
			"strintern_misses_total",
			"Intern calls that allocated a new entry.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
}

// Collect implements prometheus.Collector. It reads Stats, which never
// panics, so scrapes keep working on a poisoned interner.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.in.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Entries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses))
}
