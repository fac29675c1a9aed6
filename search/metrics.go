package search

import "time"

// MetricsObserver receives the outcome of searches.
type MetricsObserver interface {
	// OnExchange is called when ExchangeInterfaceData returns.
	OnExchange(duration time.Duration, iterations int, conforming bool, err error)

	// OnIteration is called after each search iteration with the number of
	// records searched on this rank and the candidates they found.
	OnIteration(iteration int, radius float64, records, results int)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnExchange(time.Duration, int, bool, error) {}
func (NoopMetricsObserver) OnIteration(int, float64, int, int)          {}
