package attestation

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

// Signer solicits a signature from a single validator. Implementations should
// return once ctx is done.
type Signer interface {
	Sign(ctx context.Context, validator string, transferID string, payload []byte) ([]byte, error)
}

type Verifier interface {
	Verify(validator string, payload []byte, signature []byte) bool
}

// Ledger is the subset of the transfer ledger the collector records decisions in
type Ledger interface {
	Confirm(id string, signatures []transfer.Signature) (*transfer.Transfer, error)
	Fail(id string, cause error) (*transfer.Transfer, error)
}

type Config struct {
	Threshold           int
	Timeout             time.Duration
	SolicitationTimeout time.Duration
	// ConfirmationDelays is the wait per source chain before solicitation starts
	ConfirmationDelays map[string]time.Duration
}

type vote struct {
	validator string
	signature []byte
	valid     bool
}

type Collector struct {
	ledger   Ledger
	signer   Signer
	verifier Verifier
	config   Config
}

func NewCollector(ledger Ledger, signer Signer, verifier Verifier, config Config) *Collector {
	return &Collector{
		ledger:   ledger,
		signer:   signer,
		verifier: verifier,
		config:   config,
	}
}

// Attest solicits signatures from validators concurrently and confirms the
// transfer as soon as the threshold of valid signatures is reached. The transfer
// fails with InsufficientQuorumError when every validator answered or the
// attestation timeout elapsed without quorum.
//
// If ctx is cancelled before a decision, the transfer is left pending and
// ctx.Err() is returned. Any other error also leaves the transfer pending and
// it is up to the caller to record the failure.
func (c *Collector) Attest(ctx context.Context, t *transfer.Transfer, validators []string) (*transfer.Transfer, error) {
	logger := log.With().Str("transferID", t.ID).Logger()

	if err := c.waitConfirmations(ctx, t.SourceChain); err != nil {
		return nil, err
	}

	payload, err := Payload(t)
	if err != nil {
		return nil, err
	}

	roundCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	// buffered so solicitations finishing after the decision never block
	votes := make(chan vote, len(validators))
	for _, validator := range validators {
		go c.solicit(roundCtx, validator, t.ID, payload, votes)
	}

	signatures := make([]transfer.Signature, 0, c.config.Threshold)
	signed := make(map[string]bool)
	for responses := 0; responses < len(validators); responses++ {
		select {
		case v := <-votes:
			{
				if !v.valid || signed[v.validator] {
					logger.Debug().Msgf("No vote from validator %s", v.validator)
					continue
				}

				signed[v.validator] = true
				signatures = append(signatures, transfer.Signature{
					Validator: v.validator,
					Signature: v.signature,
				})
				if len(signatures) >= c.config.Threshold {
					logger.Info().Msgf("Quorum reached with %d signatures", len(signatures))
					return c.ledger.Confirm(t.ID, signatures)
				}
			}
		case <-roundCtx.Done():
			return c.decide(ctx, t.ID, len(signatures))
		}
	}

	return c.decide(ctx, t.ID, len(signatures))
}

func (c *Collector) decide(ctx context.Context, id string, collected int) (*transfer.Transfer, error) {
	if ctx.Err() != nil {
		log.Warn().Str("transferID", id).Msgf("Attestation abandoned")
		return nil, ctx.Err()
	}
	return c.fail(id, collected)
}

func (c *Collector) fail(id string, collected int) (*transfer.Transfer, error) {
	cause := &transfer.InsufficientQuorumError{
		Collected: collected,
		Required:  c.config.Threshold,
	}
	log.Warn().Str("transferID", id).Msg(cause.Error())
	return c.ledger.Fail(id, cause)
}

func (c *Collector) solicit(ctx context.Context, validator string, transferID string, payload []byte, votes chan<- vote) {
	ctx, cancel := context.WithTimeout(ctx, c.config.SolicitationTimeout)
	defer cancel()

	sig, err := c.signer.Sign(ctx, validator, transferID, payload)
	if err != nil {
		log.Debug().Str("transferID", transferID).Msgf("Validator %s failed signing: %s", validator, err)
		votes <- vote{validator: validator}
		return
	}

	votes <- vote{
		validator: validator,
		signature: sig,
		valid:     c.verifier.Verify(validator, payload, sig),
	}
}

func (c *Collector) waitConfirmations(ctx context.Context, chain string) error {
	delay := c.config.ConfirmationDelays[chain]
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
