package coordinator

import (
	"fmt"
	"time"

	"github.com/sprintertech/sprinter-bridge/fee"
)

type Config struct {
	Validators []string
	Relayers   []string
	Threshold  int

	// GasCeilings holds every supported chain and its gas ceiling
	GasCeilings        map[string]uint64
	ConfirmationDelays map[string]time.Duration
	Fees               fee.Schedule

	AttestationTimeout  time.Duration
	SolicitationTimeout time.Duration
	SubmitTimeout       time.Duration
	ExecuteTimeout      time.Duration
	RelayConcurrency    int
	HealthInterval      time.Duration
}

func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("quorum threshold must be at least 1")
	}
	if c.Threshold > len(unique(c.Validators)) {
		return fmt.Errorf("quorum threshold %d exceeds validator set size %d", c.Threshold, len(unique(c.Validators)))
	}
	if len(c.GasCeilings) < 2 {
		return fmt.Errorf("at least two supported chains required")
	}
	if c.AttestationTimeout <= 0 || c.SolicitationTimeout <= 0 || c.SubmitTimeout <= 0 || c.ExecuteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("health interval must be positive")
	}
	if err := c.Fees.Default.Validate(); err != nil {
		return err
	}
	for chain, structure := range c.Fees.Overrides {
		if err := structure.Validate(); err != nil {
			return fmt.Errorf("fee override for %s: %w", chain, err)
		}
	}
	return nil
}

func unique(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
