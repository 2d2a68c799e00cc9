package interceptors

import (
	"sync"
	"time"
)

// MetricsCollector defines the interface for collecting delivery metrics
type MetricsCollector interface {
	IncrementDeliveryCount(signal string)
	RecordDispatchTime(signal string, duration time.Duration)
	IncrementErrorCount(signal string, errorType string)
}

// TimeStats tracks timing statistics
type TimeStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Average returns the mean dispatch time
func (s TimeStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// SimpleMetricsCollector implements a basic in-memory metrics collector
type SimpleMetricsCollector struct {
	mu sync.RWMutex

	deliveries    map[string]int64
	errors        map[string]map[string]int64
	dispatchTimes map[string]*TimeStats
}

// NewSimpleMetricsCollector creates a new in-memory metrics collector
func NewSimpleMetricsCollector() *SimpleMetricsCollector {
	return &SimpleMetricsCollector{
		deliveries:    make(map[string]int64),
		errors:        make(map[string]map[string]int64),
		dispatchTimes: make(map[string]*TimeStats),
	}
}

// IncrementDeliveryCount implements MetricsCollector
func (c *SimpleMetricsCollector) IncrementDeliveryCount(signal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries[signal]++
}

// RecordDispatchTime implements MetricsCollector
func (c *SimpleMetricsCollector) RecordDispatchTime(signal string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, exists := c.dispatchTimes[signal]
	if !exists {
		stats = &TimeStats{Min: duration, Max: duration}
		c.dispatchTimes[signal] = stats
	}

	stats.Count++
	stats.Total += duration

	if duration < stats.Min {
		stats.Min = duration
	}
	if duration > stats.Max {
		stats.Max = duration
	}
}

// IncrementErrorCount implements MetricsCollector
func (c *SimpleMetricsCollector) IncrementErrorCount(signal string, errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.errors[signal] == nil {
		c.errors[signal] = make(map[string]int64)
	}
	c.errors[signal][errorType]++
}

// Deliveries returns the number of deliveries recorded for a signal
func (c *SimpleMetricsCollector) Deliveries(signal string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deliveries[signal]
}

// Errors returns the number of errors of errorType recorded for a signal
func (c *SimpleMetricsCollector) Errors(signal string, errorType string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errors[signal][errorType]
}

// DispatchTime returns a copy of the timing stats for a signal
func (c *SimpleMetricsCollector) DispatchTime(signal string) TimeStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if stats, exists := c.dispatchTimes[signal]; exists {
		return *stats
	}
	return TimeStats{}
}
