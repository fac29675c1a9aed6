package meshmap

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    mapCounter   prometheus.Counter
//	    mapHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordExchange(iterations int, conforming bool, duration time.Duration, err error) {
//	    p.mapCounter.Inc()
//	    p.mapHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordExchange is called after each search exchange.
	// iterations is the number of search iterations, conforming reports whether
	// the initial radius sufficed, err is nil if successful.
	RecordExchange(iterations int, conforming bool, duration time.Duration, err error)

	// RecordIteration is called after each search iteration with the number of
	// records searched and the candidates they found.
	RecordIteration(records, results int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExchange(int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordIteration(int, int)                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExchangeCount       atomic.Int64
	ExchangeErrors      atomic.Int64
	ExchangeTotalNanos  atomic.Int64
	ConformingExchanges atomic.Int64
	IterationCount      atomic.Int64
	RecordsSearched     atomic.Int64
	CandidatesFound     atomic.Int64
}

// RecordExchange implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExchange(iterations int, conforming bool, duration time.Duration, err error) {
	b.ExchangeCount.Add(1)
	b.ExchangeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExchangeErrors.Add(1)
		return
	}
	if conforming {
		b.ConformingExchanges.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(records, results int) {
	b.IterationCount.Add(1)
	b.RecordsSearched.Add(int64(records))
	b.CandidatesFound.Add(int64(results))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExchangeCount:       b.ExchangeCount.Load(),
		ExchangeErrors:      b.ExchangeErrors.Load(),
		ExchangeAvgNanos:    b.getAvgExchangeNanos(),
		ConformingExchanges: b.ConformingExchanges.Load(),
		IterationCount:      b.IterationCount.Load(),
		RecordsSearched:     b.RecordsSearched.Load(),
		CandidatesFound:     b.CandidatesFound.Load(),
		AvgCandidates:       b.getAvgCandidates(),
	}
}

func (b *BasicMetricsCollector) getAvgExchangeNanos() int64 {
	count := b.ExchangeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExchangeTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgCandidates() float64 {
	records := b.RecordsSearched.Load()
	if records == 0 {
		return 0
	}
	return float64(b.CandidatesFound.Load()) / float64(records)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExchangeCount       int64
	ExchangeErrors      int64
	ExchangeAvgNanos    int64
	ConformingExchanges int64
	IterationCount      int64
	RecordsSearched     int64
	CandidatesFound     int64
	AvgCandidates       float64
}

// metricsObserver forwards the observations of a search to a MetricsCollector.
type metricsObserver struct {
	mc MetricsCollector
}

func (o metricsObserver) OnExchange(duration time.Duration, iterations int, conforming bool, err error) {
	o.mc.RecordExchange(iterations, conforming, duration, err)
}

func (o metricsObserver) OnIteration(_ int, _ float64, records, results int) {
	o.mc.RecordIteration(records, results)
}
