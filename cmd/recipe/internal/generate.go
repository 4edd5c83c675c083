package internal

import (
	"fmt"

	"github.com/exqudens/usbrecipe/upstream/resolver/conan"
	"github.com/spf13/cobra"
)

var generateGraph string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write conan-packages.cmake and copy dependency binaries",
	Long: `Resolve the requirements with conan install (or read a saved graph with --graph),
write the CMake dependency file into the build folder and copy dependency
shared libraries into <build>/bin.`,
	Args: cobra.NoArgs,
	RunE: runGenerateCmd,
}

// checkConan verifies the conan version when conan is going to be invoked.
func checkConan(cmd *cobra.Command, graph string) error {
	if graph != "" {
		return nil
	}
	_, err := conan.CheckVersion(cmd.Context(), cfg.Conan.Executable, cfg.Conan.RequiredVersion)
	return err
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	if err := checkConan(cmd, generateGraph); err != nil {
		return err
	}
	r := newRecipe(generateGraph)
	if err := r.Requirements(); err != nil {
		return err
	}
	if err := r.Generate(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.GeneratedFile())
	for _, binary := range r.Binaries {
		fmt.Fprintln(out, binary)
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateGraph, "graph", "g", "", "saved conan install --format json output")
	rootCmd.AddCommand(generateCmd)
}
