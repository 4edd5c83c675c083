package recipe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/exqudens/usbrecipe/internal/file"
	"github.com/exqudens/usbrecipe/upstream"
	"github.com/spf13/afero"
)

const (
	// CMakeFileNameProperty is the cpp_info property holding the name used
	// with find_package().
	CMakeFileNameProperty = "cmake_file_name"

	binFolder = "bin"
)

// posixPath renders a package folder with forward slashes so the CMake
// file is the same on every host.
func posixPath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// cmakePackages renders the conan-packages.cmake content: four parallel
// lists with one entry per dependency, in dependency order.
func cmakePackages(deps []upstream.Dependency) (string, error) {
	cmakeNames := make([]string, len(deps))
	for i, dep := range deps {
		name, ok := dep.Property(CMakeFileNameProperty)
		if !ok {
			return "", fmt.Errorf("%w: %s has no %s", ErrMissingProperty, dep.Ref, CMakeFileNameProperty)
		}
		if dep.PackageFolder == "" {
			return "", fmt.Errorf("%w: %s has no package folder", ErrMissingProperty, dep.Ref)
		}
		cmakeNames[i] = name
	}

	var sb strings.Builder

	sb.WriteString("set(\"${PROJECT_NAME}_CONAN_PACKAGE_NAMES\"\n")
	for _, dep := range deps {
		fmt.Fprintf(&sb, "    \"%s\"\n", dep.Ref.Name)
	}
	sb.WriteString(")\n")

	sb.WriteString("set(\"${PROJECT_NAME}_CMAKE_PACKAGE_NAMES\"\n")
	for i, dep := range deps {
		fmt.Fprintf(&sb, "    \"%s\" # %s\n", cmakeNames[i], dep.Ref.Name)
	}
	sb.WriteString(")\n")

	sb.WriteString("set(\"${PROJECT_NAME}_CMAKE_PACKAGE_VERSIONS\"\n")
	for _, dep := range deps {
		fmt.Fprintf(&sb, "    \"%s\" # %s\n", dep.Ref.Version, dep.Ref.Name)
	}
	sb.WriteString(")\n")

	sb.WriteString("set(\"${PROJECT_NAME}_CMAKE_PACKAGE_PATHS\"\n")
	for _, dep := range deps {
		fmt.Fprintf(&sb, "    \"%s\" # %s\n", posixPath(dep.PackageFolder), dep.Ref.Name)
	}
	sb.WriteString(")\n")

	return sb.String(), nil
}

// copyBinaries copies the shared libraries of every dependency into
// <build>/bin. Bin dirs a package declares but does not ship are skipped.
func (r *Recipe) copyBinaries(deps []upstream.Dependency) ([]string, error) {
	dst := filepath.Join(r.buildFolder, binFolder)
	if err := r.fs.MkdirAll(dst, 0755); err != nil {
		return nil, wrapRecipeError(err)
	}

	var copied []string
	for _, dep := range deps {
		for _, dir := range dep.BinDirs {
			ok, err := afero.DirExists(r.fs, dir)
			if err != nil {
				return nil, wrapRecipeError(err)
			}
			if !ok {
				r.logger.Debug().Str("dependency", dep.Ref.String()).Str("dir", dir).Msg("Bin dir does not exist, skipped")
				continue
			}
			for _, pattern := range r.cfg.Generate.BinaryPatterns {
				files, err := file.CopyFilePattern(r.fs, dir, dst, pattern)
				if err != nil {
					return nil, wrapRecipeError(err)
				}
				copied = append(copied, files...)
			}
		}
	}
	return copied, nil
}

// Generate resolves the requirements, writes the CMake dependency file into
// the build folder and copies dependency binaries to <build>/bin.
func (r *Recipe) Generate(ctx context.Context) error {
	return r.step("generate", func() error {
		deps, err := r.resolver.Resolve(ctx, r.Requires)
		if err != nil {
			return err
		}
		r.logger.Info().Str("resolver", r.resolver.Name()).Int("dependencies", len(deps)).Msg("Dependencies resolved")

		content, err := cmakePackages(deps)
		if err != nil {
			return err
		}
		if err := r.fs.MkdirAll(r.buildFolder, 0755); err != nil {
			return wrapRecipeError(err)
		}
		generated := filepath.Join(r.buildFolder, r.cfg.GeneratedFile)
		if err := afero.WriteFile(r.fs, generated, []byte(content), 0644); err != nil {
			return wrapRecipeError(err)
		}
		r.logger.Info().Str("file", generated).Msg("CMake dependency file written")

		binaries, err := r.copyBinaries(deps)
		if err != nil {
			return err
		}
		r.Dependencies = deps
		r.Binaries = binaries
		return nil
	})
}

// GeneratedFile is the path of the CMake dependency file.
func (r *Recipe) GeneratedFile() string {
	return filepath.Join(r.buildFolder, r.cfg.GeneratedFile)
}
