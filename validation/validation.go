package validation

import (
	"fmt"

	"github.com/sprintertech/sprinter-bridge/transfer"
)

// Validator checks transfer requests against structural rules and bridge policy.
type Validator struct {
	// supported chain -> gas ceiling
	gasCeilings map[string]uint64
}

func NewValidator(gasCeilings map[string]uint64) *Validator {
	ceilings := make(map[string]uint64, len(gasCeilings))
	for chain, ceiling := range gasCeilings {
		ceilings[chain] = ceiling
	}

	return &Validator{
		gasCeilings: ceilings,
	}
}

// ValidateRequest returns the first violated rule as a *transfer.ValidationError.
func (v *Validator) ValidateRequest(req transfer.Request) error {
	if req.Sender == "" {
		return invalid("missing field 'from'")
	}
	if req.Receiver == "" {
		return invalid("missing field 'to'")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return invalid("amount must be positive")
	}
	if req.SourceChain == req.TargetChain {
		return invalid("source and target chain must differ")
	}

	ceiling, ok := v.gasCeilings[req.SourceChain]
	if !ok {
		return unsupported(req.SourceChain)
	}
	if _, ok := v.gasCeilings[req.TargetChain]; !ok {
		return unsupported(req.TargetChain)
	}

	if req.Gas > ceiling {
		return invalid(fmt.Sprintf("gas %d exceeds ceiling %d of chain '%s'", req.Gas, ceiling, req.SourceChain))
	}
	return nil
}

// GasCeiling returns the configured ceiling of a supported chain
func (v *Validator) GasCeiling(chain string) (uint64, bool) {
	ceiling, ok := v.gasCeilings[chain]
	return ceiling, ok
}

func invalid(reason string) error {
	return &transfer.ValidationError{Reason: reason}
}

func unsupported(chain string) error {
	err := &transfer.UnsupportedChainError{Chain: chain}
	return &transfer.ValidationError{Reason: err.Error(), Err: err}
}
