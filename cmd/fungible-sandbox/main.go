// fungible-sandbox runs the fungible token contract on a persistent local
// sandbox host, for demos and manual poking without a chain.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "fungible-sandbox",
		Short: "Local sandbox for the fungible token contract",
		Long: `fungible-sandbox executes the fungible token contract on an in-process
host simulation persisted in a bbolt database, so balances, registrations
and in-flight value survive between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path of the config file (default $HOME/.fungible-sandbox.yaml)")
	pf.String("state", "", "Path of the state database")
	pf.String("signer", "", "Account signing the calls")
	pf.Bool("verbose", false, "Log receipt execution")

	cobra.OnInitialize(func() { initConfig(cmd, v) })

	cmd.AddCommand(
		initCommand(v),
		accountCommand(v),
		transferCommand(v),
		transferCallCommand(v),
		balanceOfCommand(v),
		totalSupplyCommand(v),
		metadataCommand(v),
		storageCommand(v),
	)
	return cmd
}

func initConfig(cmd *cobra.Command, v *viper.Viper) {
	for _, flag := range []string{"config", "state", "signer", "verbose"} {
		_ = v.BindPFlag(flag, cmd.PersistentFlags().Lookup(flag))
	}

	v.SetDefault("state", defaultStatePath())
	v.SetDefault("signer", "owner")
	v.SetDefault("contract", "token")
	v.SetDefault("genesis.owner", "owner")
	v.SetDefault("genesis.total_supply", "1000000000")
	v.SetDefault("genesis.metadata.name", "Sandbox fungible token")
	v.SetDefault("genesis.metadata.symbol", "SAND")
	v.SetDefault("genesis.metadata.decimals", 24)

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(".fungible-sandbox")
			v.SetConfigType("yaml")
		}
	}
	// Missing config files are fine: defaults and flags cover everything.
	_ = v.ReadInConfig()
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fungible-sandbox.db"
	}
	return home + "/.fungible-sandbox.db"
}
