package config

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/sprintertech/sprinter-bridge/fee"
)

// RawFeeConfig holds fee amounts as integer strings in the asset's smallest
// unit. The percentage is given either as basis points or as a decimal fraction
// of the amount, e.g. "0.001" for 10 bps.
type RawFeeConfig struct {
	Base       string  `mapstructure:"base" json:"base"`
	Bps        *uint64 `mapstructure:"bps" json:"bps"`
	Percentage string  `mapstructure:"percentage" json:"percentage"`
	Min        string  `mapstructure:"min" json:"min"`
	Max        string  `mapstructure:"max" json:"max"`
}

func newFeeSchedule(raw RawFeeConfig, overrides map[string]RawFeeConfig) (fee.Schedule, error) {
	schedule := fee.Schedule{
		Overrides: make(map[string]fee.Structure, len(overrides)),
	}

	structure, err := raw.structure()
	if err != nil {
		return schedule, fmt.Errorf("invalid fee config: %w", err)
	}
	schedule.Default = structure

	for target, override := range overrides {
		structure, err := override.structure()
		if err != nil {
			return schedule, fmt.Errorf("invalid fee override for chain %s: %w", target, err)
		}
		schedule.Overrides[target] = structure
	}
	return schedule, nil
}

func (c RawFeeConfig) structure() (fee.Structure, error) {
	base, err := parseAmount("base", c.Base, false)
	if err != nil {
		return fee.Structure{}, err
	}
	minFee, err := parseAmount("min", c.Min, false)
	if err != nil {
		return fee.Structure{}, err
	}
	maxFee, err := parseAmount("max", c.Max, true)
	if err != nil {
		return fee.Structure{}, err
	}
	bps, err := c.bps()
	if err != nil {
		return fee.Structure{}, err
	}

	s := fee.Structure{
		Base: base,
		Bps:  bps,
		Min:  minFee,
		Max:  maxFee,
	}
	return s, s.Validate()
}

func (c RawFeeConfig) bps() (uint64, error) {
	if c.Bps != nil && c.Percentage != "" {
		return 0, fmt.Errorf("only one of fee.bps and fee.percentage can be set")
	}
	if c.Bps != nil {
		return *c.Bps, nil
	}
	if c.Percentage == "" {
		return 0, nil
	}

	percentage, err := decimal.NewFromString(c.Percentage)
	if err != nil {
		return 0, fmt.Errorf("invalid fee.percentage '%s': %w", c.Percentage, err)
	}
	if percentage.IsNegative() {
		return 0, fmt.Errorf("fee.percentage '%s' is negative", c.Percentage)
	}

	bps := percentage.Mul(decimal.NewFromInt(fee.BPS_DENOMINATOR))
	if !bps.IsInteger() {
		return 0, fmt.Errorf("fee.percentage '%s' is not a whole number of basis points", c.Percentage)
	}
	whole := bps.BigInt()
	if !whole.IsUint64() {
		return 0, fmt.Errorf("fee.percentage '%s' is out of range", c.Percentage)
	}
	return whole.Uint64(), nil
}

func parseAmount(field string, value string, required bool) (*big.Int, error) {
	if value == "" {
		if required {
			return nil, fmt.Errorf("required field fee.%s empty", field)
		}
		return big.NewInt(0), nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid fee.%s '%s': %w", field, value, err)
	}
	if !d.IsInteger() {
		return nil, fmt.Errorf("fee.%s '%s' must be an integer amount", field, value)
	}
	return d.BigInt(), nil
}
