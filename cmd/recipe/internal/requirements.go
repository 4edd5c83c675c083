package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "List the declared requirements",
	Args:  cobra.NoArgs,
	RunE:  runRequirementsCmd,
}

func runRequirementsCmd(cmd *cobra.Command, _ []string) error {
	r := newRecipe("")
	if err := r.Requirements(); err != nil {
		return err
	}
	for _, req := range r.Requires {
		if req.TransitiveHeaders {
			fmt.Fprintf(cmd.OutOrStdout(), "%s transitive_headers=True\n", req)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), req)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
}
