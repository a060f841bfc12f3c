package stats

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a Counters set as prometheus metrics.
//
// The collector reads the counters at scrape time. Because the engine
// is single-threaded and scrapes happen between top-level interactions,
// no synchronization is needed beyond what the caller already provides.
type Collector struct {
	counters *Counters

	evaluations  *prometheus.Desc
	memoHits     *prometheus.Desc
	memoMisses   *prometheus.Desc
	dirtied      *prometheus.Desc
	cleaned      *prometheus.Desc
	evictions    *prometheus.Desc
	destructions *prometheus.Desc
}

// NewCollector wraps counters for prometheus registration.
func NewCollector(c *Counters) *Collector {
	return &Collector{
		counters: c,
		evaluations: prometheus.NewDesc("grifola_evaluations_total",
			"User bodies executed.", nil, nil),
		memoHits: prometheus.NewDesc("grifola_memo_hits_total",
			"Memo table lookups that returned a canonical entry.", nil, nil),
		memoMisses: prometheus.NewDesc("grifola_memo_misses_total",
			"Memo table lookups that created a new entry.", nil, nil),
		dirtied: prometheus.NewDesc("grifola_edges_dirtied_total",
			"Force edges flipped Clean to Dirty.", nil, nil),
		cleaned: prometheus.NewDesc("grifola_edges_cleaned_total",
			"Force edges flipped back to Clean during repair.", nil, nil),
		evictions: prometheus.NewDesc("grifola_evictions_total",
			"Memo entries removed by an eviction policy.", nil, nil),
		destructions: prometheus.NewDesc("grifola_destructions_total",
			"Nodes torn down by reference counting.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (col *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- col.evaluations
	ch <- col.memoHits
	ch <- col.memoMisses
	ch <- col.dirtied
	ch <- col.cleaned
	ch <- col.evictions
	ch <- col.destructions
}

// Collect implements prometheus.Collector.
func (col *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := col.counters.Snapshot()
	ch <- prometheus.MustNewConstMetric(col.evaluations, prometheus.CounterValue, float64(snap.Evaluations))
	ch <- prometheus.MustNewConstMetric(col.memoHits, prometheus.CounterValue, float64(snap.MemoHits))
	ch <- prometheus.MustNewConstMetric(col.memoMisses, prometheus.CounterValue, float64(snap.MemoMisses))
	ch <- prometheus.MustNewConstMetric(col.dirtied, prometheus.CounterValue, float64(snap.Dirtied))
	ch <- prometheus.MustNewConstMetric(col.cleaned, prometheus.CounterValue, float64(snap.Cleaned))
	ch <- prometheus.MustNewConstMetric(col.evictions, prometheus.CounterValue, float64(snap.Evictions))
	ch <- prometheus.MustNewConstMetric(col.destructions, prometheus.CounterValue, float64(snap.Destructions))
}
