package internal

import (
	"fmt"
	"os"

	"github.com/exqudens/usbrecipe/internal/config"
	"github.com/exqudens/usbrecipe/internal/logging"
	"github.com/exqudens/usbrecipe/recipe"
	"github.com/exqudens/usbrecipe/upstream/resolver/conan"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	recipeDir     string
	buildFolder   string
	packageFolder string
	configPath    string
	verbosity     int

	// loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Package recipe for the exqudens USB client library",
	Long: `recipe runs the lifecycle steps of the exqudens USB client package:
name and version resolution, requirements, generate, package and package-info.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(recipeDir, configPath)
	if err != nil {
		return err
	}
	logging.SetupLogger(max(verbosity, cfg.Log.Verbosity))
	return nil
}

// newRecipe builds a recipe from the flags. graph selects a saved conan graph
// instead of running conan install.
func newRecipe(graph string) *recipe.Recipe {
	fsys := afero.NewOsFs()
	opts := []recipe.Option{
		recipe.WithConfig(cfg),
		recipe.WithFs(fsys),
		recipe.WithLogger(logging.GetLogger("recipe")),
		recipe.WithBuildFolder(buildFolder),
		recipe.WithPackageFolder(packageFolder),
	}
	if graph != "" {
		opts = append(opts, recipe.WithResolver(conan.NewGraphFileResolver(fsys, graph)))
	}
	return recipe.New(recipeDir, opts...)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&recipeDir, "recipe-dir", "d", ".", "directory holding name-version.txt")
	rootCmd.PersistentFlags().StringVar(&buildFolder, "build-folder", "", "build output folder (default from config: build)")
	rootCmd.PersistentFlags().StringVar(&packageFolder, "package-folder", "", "package output folder (default from config: package)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <recipe-dir>/recipe.toml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
}
