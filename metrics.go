package hypergo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordSynthesize is called after each synthesis run.
	// edges is the number of hyperedges emitted, err is nil if successful.
	RecordSynthesize(edges int, duration time.Duration, err error)

	// RecordBuild is called after each hypergraph construction.
	RecordBuild(nodes, edges int, duration time.Duration, err error)

	// RecordCluster is called after each community-detection run.
	// communities is the number of communities found.
	RecordCluster(communities int, duration time.Duration, err error)

	// RecordExport is called after each artifact export.
	// artifacts is the number of objects written.
	RecordExport(artifacts int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSynthesize(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCluster(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordExport(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SynthesizeCount      atomic.Int64
	SynthesizeErrors     atomic.Int64
	SynthesizeEdges      atomic.Int64
	SynthesizeTotalNanos atomic.Int64
	BuildCount           atomic.Int64
	BuildErrors          atomic.Int64
	ClusterCount         atomic.Int64
	ClusterErrors        atomic.Int64
	ClusterTotalNanos    atomic.Int64
	ExportCount          atomic.Int64
	ExportErrors         atomic.Int64
	ExportArtifacts      atomic.Int64
}

// RecordSynthesize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSynthesize(edges int, duration time.Duration, err error) {
	b.SynthesizeCount.Add(1)
	b.SynthesizeEdges.Add(int64(edges))
	b.SynthesizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SynthesizeErrors.Add(1)
	}
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(nodes, edges int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(communities int, duration time.Duration, err error) {
	b.ClusterCount.Add(1)
	b.ClusterTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClusterErrors.Add(1)
	}
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(artifacts int, duration time.Duration, err error) {
	b.ExportCount.Add(1)
	b.ExportArtifacts.Add(int64(artifacts))
	if err != nil {
		b.ExportErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SynthesizeCount:    b.SynthesizeCount.Load(),
		SynthesizeErrors:   b.SynthesizeErrors.Load(),
		SynthesizeEdges:    b.SynthesizeEdges.Load(),
		SynthesizeAvgNanos: b.avgNanos(&b.SynthesizeTotalNanos, &b.SynthesizeCount),
		BuildCount:         b.BuildCount.Load(),
		BuildErrors:        b.BuildErrors.Load(),
		ClusterCount:       b.ClusterCount.Load(),
		ClusterErrors:      b.ClusterErrors.Load(),
		ClusterAvgNanos:    b.avgNanos(&b.ClusterTotalNanos, &b.ClusterCount),
		ExportCount:        b.ExportCount.Load(),
		ExportErrors:       b.ExportErrors.Load(),
		ExportArtifacts:    b.ExportArtifacts.Load(),
	}
}

func (b *BasicMetricsCollector) avgNanos(total, count *atomic.Int64) int64 {
	c := count.Load()
	if c == 0 {
		return 0
	}
	return total.Load() / c
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SynthesizeCount    int64
	SynthesizeErrors   int64
	SynthesizeEdges    int64
	SynthesizeAvgNanos int64
	BuildCount         int64
	BuildErrors        int64
	ClusterCount       int64
	ClusterErrors      int64
	ClusterAvgNanos    int64
	ExportCount        int64
	ExportErrors       int64
	ExportArtifacts    int64
}
