package zonescan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSplit is called after the source table has been split.
	RecordSplit(rows uint64, zones int, duration time.Duration, err error)

	// RecordQuery is called after each query.
	RecordQuery(records int, duration time.Duration, err error)

	// RecordZones is called once per query with the zone counters of all stages.
	RecordZones(scanned, pruned, skipped int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSplit(uint64, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordZones(int, int, int)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SplitCount      atomic.Int64
	SplitErrors     atomic.Int64
	SplitRows       atomic.Int64
	SplitZones      atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryRecords    atomic.Int64
	QueryTotalNanos atomic.Int64
	ZonesScanned    atomic.Int64
	ZonesPruned     atomic.Int64
	ZonesSkipped    atomic.Int64
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(rows uint64, zones int, _ time.Duration, err error) {
	b.SplitCount.Add(1)
	if err != nil {
		b.SplitErrors.Add(1)
		return
	}
	b.SplitRows.Add(int64(rows))
	b.SplitZones.Add(int64(zones))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(records int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryRecords.Add(int64(records))
}

// RecordZones implements MetricsCollector.
func (b *BasicMetricsCollector) RecordZones(scanned, pruned, skipped int) {
	b.ZonesScanned.Add(int64(scanned))
	b.ZonesPruned.Add(int64(pruned))
	b.ZonesSkipped.Add(int64(skipped))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SplitCount:    b.SplitCount.Load(),
		SplitErrors:   b.SplitErrors.Load(),
		SplitRows:     b.SplitRows.Load(),
		SplitZones:    b.SplitZones.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryRecords:  b.QueryRecords.Load(),
		QueryAvgNanos: b.getAvgQueryNanos(),
		ZonesScanned:  b.ZonesScanned.Load(),
		ZonesPruned:   b.ZonesPruned.Load(),
		ZonesSkipped:  b.ZonesSkipped.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SplitCount    int64
	SplitErrors   int64
	SplitRows     int64
	SplitZones    int64
	QueryCount    int64
	QueryErrors   int64
	QueryRecords  int64
	QueryAvgNanos int64
	ZonesScanned  int64
	ZonesPruned   int64
	ZonesSkipped  int64
}
