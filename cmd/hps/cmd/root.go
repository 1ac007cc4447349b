package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hps",
	Short: "hps - scratch org provisioning daemon",
	Long: `hps provisions scratch organizations against a hub org.

It validates provisioning requests, checks for username collisions,
submits ScratchOrgInfo creation calls, and exposes the pipeline over an
HTTP API with lifecycle event streaming.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
}
