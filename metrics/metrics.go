package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type BridgeMetrics struct {
	*HostMetrics
	*TransferMetrics
}

// NewBridgeMetrics creates an instance of metrics labeled with the
// environment, bridge id and version
func NewBridgeMetrics(ctx context.Context, meter metric.Meter, env, bridgeID, version string) (*BridgeMetrics, error) {
	attributes := []attribute.KeyValue{
		attribute.String("env", env),
		attribute.String("bridge", bridgeID),
		attribute.String("version", version),
	}
	opts := metric.WithAttributes(attributes...)

	hostMetrics, err := NewHostMetrics(ctx, meter, opts)
	if err != nil {
		return nil, err
	}

	transferMetrics, err := NewTransferMetrics(ctx, meter, attributes)
	if err != nil {
		return nil, err
	}

	return &BridgeMetrics{
		HostMetrics:     hostMetrics,
		TransferMetrics: transferMetrics,
	}, nil
}
