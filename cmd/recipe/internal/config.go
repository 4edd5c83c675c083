package internal

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigCmd,
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	b, err := cfg.TOML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
}
