package internal

import (
	"github.com/spf13/cobra"
)

var (
	createGraph string
	createZip   bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Run every lifecycle step",
	Long: `Run set_name, set_version, requirements, generate, package and package_info
in order and print the resulting cpp_info.`,
	Args: cobra.NoArgs,
	RunE: runCreateCmd,
}

func runCreateCmd(cmd *cobra.Command, _ []string) error {
	if err := checkConan(cmd, createGraph); err != nil {
		return err
	}
	r := newRecipe(createGraph)
	if err := r.Create(cmd.Context()); err != nil {
		return err
	}
	if err := printPackageInfo(cmd, r); err != nil {
		return err
	}
	if createZip {
		return archive(cmd, r)
	}
	return nil
}

func init() {
	createCmd.Flags().StringVarP(&createGraph, "graph", "g", "", "saved conan install --format json output")
	createCmd.Flags().BoolVar(&createZip, "zip", false, "also write <name>_<version>_<os>_<arch>.zip next to the package folder")
	rootCmd.AddCommand(createCmd)
}
