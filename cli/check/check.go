// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package check

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprintertech/sprinter-bridge/config"
)

var (
	CheckCLI = &cobra.Command{
		Use:   "check",
		Short: "Check bridge configuration",
		Long: "CLI loads the bridge configuration the same way the run command does " +
			"and prints the resolved chains, quorum and fees",
		RunE: checkConfig,
	}
)

func checkConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(viper.GetString(config.ConfigFlagName), viper.GetString("config-url"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	b := c.BridgeConfig
	fmt.Fprintf(out, "Bridge: %s (%s)\n", b.Id, b.Env)
	fmt.Fprintf(out, "Quorum: %d of %d validators\n", b.Threshold, len(b.Validators))
	fmt.Fprintf(out, "Relayers: %d, selection %s, concurrency %d\n", len(b.Relayers), b.RelayerSelection, b.RelayConcurrency)
	fmt.Fprintf(out, "Store: %s\n", b.Store.Type)
	for _, chain := range c.ChainConfigs {
		fmt.Fprintf(out, "Chain %s: gas ceiling %d, confirmation delay %s\n", chain.Name, chain.GasCeiling, chain.ConfirmationDelay())
	}
	fmt.Fprintf(out, "Fee: base %s, %d bps, min %s, max %s\n",
		b.Fees.Default.Base, b.Fees.Default.Bps, b.Fees.Default.Min, b.Fees.Default.Max)
	for target, structure := range b.Fees.Overrides {
		fmt.Fprintf(out, "Fee to %s: base %s, %d bps, min %s, max %s\n",
			target, structure.Base, structure.Bps, structure.Min, structure.Max)
	}
	return nil
}
