package fee

import (
	"fmt"
	"math/big"

	"github.com/sprintertech/sprinter-bridge/transfer"
)

const (
	BPS_DENOMINATOR = 10000
)

// Structure describes how the bridge fee is charged for a transfer.
// Percentage is expressed in basis points of the transferred amount.
type Structure struct {
	Base *big.Int
	Bps  uint64
	Min  *big.Int
	Max  *big.Int
}

func (s Structure) Validate() error {
	if s.Base == nil || s.Min == nil || s.Max == nil {
		return fmt.Errorf("fee structure incomplete")
	}
	if s.Base.Sign() < 0 || s.Min.Sign() < 0 || s.Max.Sign() < 0 {
		return fmt.Errorf("fee values must be non-negative")
	}
	if s.Min.Cmp(s.Max) > 0 {
		return fmt.Errorf("min fee %s exceeds max fee %s", s.Min, s.Max)
	}
	return nil
}

// ComputeFee returns clamp(amount * bps / 10000 + base, min, max).
func ComputeFee(amount *big.Int, s Structure) (*big.Int, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", transfer.ErrInvalidArgument)
	}

	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(s.Bps))
	fee.Quo(fee, big.NewInt(BPS_DENOMINATOR))
	fee.Add(fee, s.Base)

	if fee.Cmp(s.Min) < 0 {
		return new(big.Int).Set(s.Min), nil
	}
	if fee.Cmp(s.Max) > 0 {
		return new(big.Int).Set(s.Max), nil
	}
	return fee, nil
}

// Schedule resolves the fee structure for a chain pair. Overrides are keyed
// by target chain.
type Schedule struct {
	Default   Structure
	Overrides map[string]Structure
}

func (s Schedule) Fee(amount *big.Int, sourceChain, targetChain string) (*big.Int, error) {
	structure, ok := s.Overrides[targetChain]
	if !ok {
		structure = s.Default
	}

	return ComputeFee(amount, structure)
}
