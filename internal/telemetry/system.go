package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// SystemMetricsCollector samples runtime gauges (goroutines, heap
// allocation) on a fixed interval while the sidecar is up.
type SystemMetricsCollector struct {
	metrics  *Metrics
	logger   zerolog.Logger
	interval time.Duration
	done     chan struct{}
}

func NewSystemMetricsCollector(metrics *Metrics, logger zerolog.Logger, interval time.Duration) *SystemMetricsCollector {
	return &SystemMetricsCollector{
		metrics:  metrics,
		logger:   logger.With().Str("component", "system_metrics").Logger(),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start samples until the context is canceled or Stop is called.
func (c *SystemMetricsCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info().
		Dur("interval", c.interval).
		Msg("Starting system metrics collection")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Stopping system metrics collection")
			return
		case <-c.done:
			c.logger.Info().Msg("Stopping system metrics collection")
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *SystemMetricsCollector) Stop() {
	close(c.done)
}

func (c *SystemMetricsCollector) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.metrics.UpdateSystemMetrics(runtime.NumGoroutine(), m.Alloc)

	c.logger.Debug().
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("memory_bytes", m.Alloc).
		Msg("Updated system metrics")
}