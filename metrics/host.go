package metrics

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// HostMetrics reports process level gauges of the bridge coordinator
type HostMetrics struct {
	startTime        time.Time
	startTimeGauge   metric.Int64ObservableGauge
	uptimeGauge      metric.Float64ObservableGauge
	goroutineCounter metric.Int64ObservableGauge
}

// NewHostMetrics initializes metrics related to the bridge host
func NewHostMetrics(ctx context.Context, meter metric.Meter, opts metric.MeasurementOption) (*HostMetrics, error) {
	m := &HostMetrics{
		startTime: time.Now(),
	}

	var err error
	m.startTimeGauge, err = meter.Int64ObservableGauge(
		"bridge.StartTimeSeconds",
		metric.WithDescription("Start time of the bridge coordinator"),
		metric.WithInt64Callback(func(ctx context.Context, result metric.Int64Observer) error {
			result.Observe(m.startTime.Unix(), opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	m.uptimeGauge, err = meter.Float64ObservableGauge(
		"bridge.UptimeSeconds",
		metric.WithDescription("Seconds since the bridge coordinator started"),
		metric.WithFloat64Callback(func(ctx context.Context, result metric.Float64Observer) error {
			result.Observe(time.Since(m.startTime).Seconds(), opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	// attestation and relay work runs in goroutines, so their count tracks load
	m.goroutineCounter, err = meter.Int64ObservableGauge(
		"bridge.Goroutines",
		metric.WithDescription("Number of live goroutines"),
		metric.WithInt64Callback(func(ctx context.Context, result metric.Int64Observer) error {
			result.Observe(int64(runtime.NumGoroutine()), opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
