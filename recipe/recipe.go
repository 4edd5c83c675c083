// Package recipe implements the package recipe for the exqudens USB client
// library: it names the package, declares its libusb requirement, generates
// the CMake include file describing the resolved dependencies and stages the
// build output into a distributable package folder.
//
// Each lifecycle step is a method on Recipe. A failing step logs the error
// and returns it unchanged; nothing is retried.
package recipe

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/exqudens/usbrecipe/internal/config"
	"github.com/exqudens/usbrecipe/internal/logging"
	"github.com/exqudens/usbrecipe/upstream"
	"github.com/exqudens/usbrecipe/upstream/resolver/conan"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	ErrInvalidFormat    = errors.New("recipe: invalid format")
	ErrMissingProperty  = errors.New("recipe: missing dependency property")
	ErrMissingDirectory = errors.New("recipe: missing directory")
	ErrNoName           = errors.New("recipe: name and version are not set")
	ErrSameFolder       = errors.New("recipe: build and package folders are the same")
)

// Wraps an error with the "recipe" prefix for better context
func wrapRecipeError(err error) error {
	return fmt.Errorf("recipe: %w", err)
}

// Recipe carries the state of one build invocation.
type Recipe struct {
	Name     string
	Version  string
	Requires []upstream.Requirement

	// Filled by Generate.
	Dependencies []upstream.Dependency
	Binaries     []string

	// Filled by PackageInfo.
	CppInfo CppInfo

	recipeDir     string
	buildFolder   string
	packageFolder string

	cfg      *config.Config
	fs       afero.Fs
	logger   zerolog.Logger
	resolver upstream.Resolver
}

type Option func(*Recipe)

func WithConfig(cfg *config.Config) Option {
	return func(r *Recipe) {
		r.cfg = cfg
	}
}

func WithFs(fsys afero.Fs) Option {
	return func(r *Recipe) {
		r.fs = fsys
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Recipe) {
		r.logger = logger
	}
}

func WithResolver(resolver upstream.Resolver) Option {
	return func(r *Recipe) {
		r.resolver = resolver
	}
}

// WithBuildFolder overrides folders.build from the configuration.
func WithBuildFolder(dir string) Option {
	return func(r *Recipe) {
		r.buildFolder = dir
	}
}

// WithPackageFolder overrides folders.package from the configuration.
func WithPackageFolder(dir string) Option {
	return func(r *Recipe) {
		r.packageFolder = dir
	}
}

// New creates a recipe rooted at recipeDir, the directory holding the sidecar file.
// Relative build and package folders are resolved against recipeDir.
func New(recipeDir string, opts ...Option) *Recipe {
	r := &Recipe{
		recipeDir: recipeDir,
		fs:        afero.NewOsFs(),
		logger:    logging.GetLogger("recipe"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg == nil {
		r.cfg = config.Default()
	}
	if r.buildFolder == "" {
		r.buildFolder = r.cfg.Folders.Build
	}
	if r.packageFolder == "" {
		r.packageFolder = r.cfg.Folders.Package
	}
	r.buildFolder = config.ResolveFolder(recipeDir, r.buildFolder)
	r.packageFolder = config.ResolveFolder(recipeDir, r.packageFolder)

	if r.resolver == nil {
		r.resolver = conan.NewConanResolver(r.cfg.Conan, r.buildFolder, r.logger)
	}
	return r
}

func (r *Recipe) RecipeDir() string {
	return r.recipeDir
}

func (r *Recipe) BuildFolder() string {
	return r.buildFolder
}

func (r *Recipe) PackageFolder() string {
	return r.packageFolder
}

func (r *Recipe) sidecarPath() string {
	return filepath.Join(r.recipeDir, r.cfg.Sidecar)
}

// step runs one lifecycle step. Failures are logged and returned as is.
func (r *Recipe) step(name string, fn func() error) error {
	done := logging.LogOperationStart(r.logger, name)
	if err := fn(); err != nil {
		r.logger.Error().Err(err).Str("step", name).Msg("Lifecycle step failed")
		return err
	}
	done()
	return nil
}
