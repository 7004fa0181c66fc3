package metrics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/events"
	"github.com/sprintertech/sprinter-bridge/transfer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ATTESTATION_TTL = time.Minute * 10
)

type TransferMetrics struct {
	attributes []attribute.KeyValue

	transfersCounter     metric.Int64Counter
	activeTransfersGauge metric.Int64ObservableGauge
	queueDepthGauge      metric.Int64ObservableGauge
	validatorsGauge      metric.Int64ObservableGauge
	relayersGauge        metric.Int64ObservableGauge
	activeTransfers      *int64
	queueDepth           *int64
	validators           *int64
	relayers             *int64

	attestationTimeHistogram  metric.Float64Histogram
	attestationStartTimeCache *ttlcache.Cache[string, time.Time]
}

// NewTransferMetrics initializes metrics related to transfer processing
func NewTransferMetrics(ctx context.Context, meter metric.Meter, attributes []attribute.KeyValue) (*TransferMetrics, error) {
	opts := metric.WithAttributes(attributes...)
	m := &TransferMetrics{
		attributes:      attributes,
		activeTransfers: new(int64),
		queueDepth:      new(int64),
		validators:      new(int64),
		relayers:        new(int64),
		attestationStartTimeCache: ttlcache.New(
			ttlcache.WithTTL[string, time.Time](ATTESTATION_TTL),
		),
	}

	var err error
	m.transfersCounter, err = meter.Int64Counter(
		"bridge.Transfers",
		metric.WithDescription("Transfers by status and chain pair"),
	)
	if err != nil {
		return nil, err
	}

	m.activeTransfersGauge, err = m.gauge(meter, "bridge.ActiveTransfers", "Transfers not yet completed or failed", m.activeTransfers, opts)
	if err != nil {
		return nil, err
	}
	m.queueDepthGauge, err = m.gauge(meter, "bridge.RelayQueueDepth", "Confirmed transfers waiting for a relayer", m.queueDepth, opts)
	if err != nil {
		return nil, err
	}
	m.validatorsGauge, err = m.gauge(meter, "bridge.Validators", "Validators in the attestation set", m.validators, opts)
	if err != nil {
		return nil, err
	}
	m.relayersGauge, err = m.gauge(meter, "bridge.Relayers", "Relayers available for relay", m.relayers, opts)
	if err != nil {
		return nil, err
	}

	m.attestationTimeHistogram, err = meter.Float64Histogram("bridge.AttestationTime")
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *TransferMetrics) gauge(meter metric.Meter, name string, description string, value *int64, opts metric.MeasurementOption) (metric.Int64ObservableGauge, error) {
	return meter.Int64ObservableGauge(
		name,
		metric.WithInt64Callback(func(context context.Context, result metric.Int64Observer) error {
			result.Observe(atomic.LoadInt64(value), opts)
			return nil
		}),
		metric.WithDescription(description),
	)
}

func (m *TransferMetrics) TrackTransfer(t *transfer.Transfer) {
	attributes := append([]attribute.KeyValue{
		attribute.String("status", string(t.Status)),
		attribute.String("sourceChain", t.SourceChain),
		attribute.String("targetChain", t.TargetChain),
	}, m.attributes...)
	m.transfersCounter.Add(context.Background(), 1, metric.WithAttributes(attributes...))
}

func (m *TransferMetrics) TrackHealth(snapshot events.HealthSnapshot) {
	// nolint:gosec
	atomic.StoreInt64(m.activeTransfers, int64(snapshot.ActiveTransfers))
	atomic.StoreInt64(m.queueDepth, int64(snapshot.QueueDepth))
	atomic.StoreInt64(m.validators, int64(snapshot.Validators))
	atomic.StoreInt64(m.relayers, int64(snapshot.Relayers))
}

func (m *TransferMetrics) StartAttestation(transferID string) {
	m.attestationStartTimeCache.Set(transferID, time.Now(), ttlcache.DefaultTTL)
}

func (m *TransferMetrics) EndAttestation(transferID string) {
	startTime := m.attestationStartTimeCache.Get(transferID)
	if startTime == nil {
		log.Warn().Msgf("Attestation start time of transfer %s not found", transferID)
		return
	}
	m.attestationStartTimeCache.Delete(transferID)

	m.attestationTimeHistogram.Record(
		context.Background(),
		time.Since(startTime.Value()).Seconds(),
		metric.WithAttributes(m.attributes...))
}
