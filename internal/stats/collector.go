// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Probe metrics.
	MetricProbes        = "fathom_probes_total"
	MetricRootProbes    = "fathom_root_probes_total"
	MetricProbeFailures = "fathom_probe_failures_total"
	MetricProbeSeconds  = "fathom_probe_seconds"

	// Lifecycle metrics.
	MetricReloads   = "fathom_reloads_total"
	MetricMaxPieces = "fathom_max_pieces"
	MetricTables    = "fathom_tables"

	// Cache metrics.
	MetricCacheHits   = "fathom_cache_hits_total"
	MetricCacheMisses = "fathom_cache_misses_total"
	MetricCacheSize   = "fathom_cache_size"

	// Mirror metrics.
	MetricMirrorFiles = "fathom_mirror_files_total"
	MetricMirrorBytes = "fathom_mirror_bytes_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
