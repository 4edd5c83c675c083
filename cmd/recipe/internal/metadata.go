package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Print the package name",
	Args:  cobra.NoArgs,
	RunE:  runNameCmd,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the package version",
	Args:  cobra.NoArgs,
	RunE:  runVersionCmd,
}

func runNameCmd(cmd *cobra.Command, _ []string) error {
	r := newRecipe("")
	if err := r.SetName(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Name)
	return nil
}

func runVersionCmd(cmd *cobra.Command, _ []string) error {
	r := newRecipe("")
	if err := r.SetVersion(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Version)
	return nil
}

func init() {
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(versionCmd)
}
