// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
)

type ChainConfig struct {
	Name          string `mapstructure:"name"`
	Confirmations uint64 `mapstructure:"confirmations" default:"5"`
	// block time in seconds
	Blocktime  uint64 `mapstructure:"blocktime" default:"12"`
	GasCeiling uint64 `mapstructure:"gasCeiling"`
}

func (c *ChainConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("required field chain.Name empty")
	}
	// viper defaults to 0 for not specified ints
	if c.GasCeiling == 0 {
		return fmt.Errorf("required field chain.GasCeiling empty for chain %s", c.Name)
	}
	return nil
}

// ConfirmationDelay is the time the chain needs to reach the configured
// confirmation depth
func (c *ChainConfig) ConfirmationDelay() time.Duration {
	// nolint:gosec
	return time.Duration(c.Confirmations*c.Blocktime) * time.Second
}

// NewChainConfig decodes and validates an instance of a ChainConfig from
// raw chain config
func NewChainConfig(chainConfig map[string]interface{}) (*ChainConfig, error) {
	var c ChainConfig
	err := mapstructure.Decode(chainConfig, &c)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return &c, nil
}
