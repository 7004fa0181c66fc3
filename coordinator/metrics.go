package coordinator

import (
	"github.com/sprintertech/sprinter-bridge/events"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

type Metrics interface {
	TrackTransfer(t *transfer.Transfer)
	TrackHealth(snapshot events.HealthSnapshot)
	StartAttestation(transferID string)
	EndAttestation(transferID string)
}

type noopMetrics struct{}

func (m noopMetrics) TrackTransfer(t *transfer.Transfer)         {}
func (m noopMetrics) TrackHealth(snapshot events.HealthSnapshot) {}
func (m noopMetrics) StartAttestation(transferID string)         {}
func (m noopMetrics) EndAttestation(transferID string)           {}
