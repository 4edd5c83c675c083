package internal

import (
	"fmt"

	"github.com/exqudens/usbrecipe/recipe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	packageZip bool
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Copy include, cmake, lib and bin into the package folder",
	Args:  cobra.NoArgs,
	RunE:  runPackageCmd,
}

var packageInfoCmd = &cobra.Command{
	Use:   "package-info",
	Short: "Print the cpp_info published by the package",
	Args:  cobra.NoArgs,
	RunE:  runPackageInfoCmd,
}

// archive zips the package folder; name and version are read first since
// the archive is named after them.
func archive(cmd *cobra.Command, r *recipe.Recipe) error {
	if r.Name == "" {
		if err := r.SetName(); err != nil {
			return err
		}
	}
	if r.Version == "" {
		if err := r.SetVersion(); err != nil {
			return err
		}
	}
	path, err := r.Archive()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runPackageCmd(cmd *cobra.Command, _ []string) error {
	r := newRecipe("")
	if err := r.Package(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.PackageFolder())
	if packageZip {
		return archive(cmd, r)
	}
	return nil
}

type packageInfoOutput struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version,omitempty"`
	CppInfo recipe.CppInfo `yaml:"cpp_info"`
}

func printPackageInfo(cmd *cobra.Command, r *recipe.Recipe) error {
	b, err := yaml.Marshal(&packageInfoOutput{
		Name:    r.Name,
		Version: r.Version,
		CppInfo: r.CppInfo,
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func runPackageInfoCmd(cmd *cobra.Command, _ []string) error {
	r := newRecipe("")
	if err := r.SetName(); err != nil {
		return err
	}
	if err := r.PackageInfo(); err != nil {
		return err
	}
	return printPackageInfo(cmd, r)
}

func init() {
	packageCmd.Flags().BoolVar(&packageZip, "zip", false, "also write <name>_<version>_<os>_<arch>.zip next to the package folder")
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(packageInfoCmd)
}
