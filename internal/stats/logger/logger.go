// Package logger provides a zap-based stats collector that logs metrics.
package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/discochess/fathom/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
// Counters are logged with their running total.
type Collector struct {
	logger   *zap.Logger
	counters sync.Map // name -> *atomic.Int64
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new logger-based collector.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

// IncCounter adds delta to the named counter and logs the new total.
func (c *Collector) IncCounter(name string, delta int64) {
	v, _ := c.counters.LoadOrStore(name, new(atomic.Int64))
	total := v.(*atomic.Int64).Add(delta)
	c.logger.Debug("counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
		zap.Int64("total", total),
	)
}

// Counter returns the running total of the named counter.
func (c *Collector) Counter(name string) int64 {
	v, ok := c.counters.Load(name)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.logger.Debug("gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.logger.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}
