package recipe

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/exqudens/usbrecipe/internal/file"
	"github.com/spf13/afero"
)

// PackageDirs are the build folder trees that make up the package.
var PackageDirs = []string{"include", "cmake", "lib", "bin"}

// Package copies the include, cmake, lib and bin trees from the build
// folder into the package folder. All four must exist; they are checked
// before anything is copied.
func (r *Recipe) Package() error {
	return r.step("package", func() error {
		if filepath.Clean(r.buildFolder) == filepath.Clean(r.packageFolder) {
			return fmt.Errorf("%w: %s", ErrSameFolder, r.packageFolder)
		}
		for _, dir := range PackageDirs {
			src := filepath.Join(r.buildFolder, dir)
			ok, err := afero.DirExists(r.fs, src)
			if err != nil {
				return wrapRecipeError(err)
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrMissingDirectory, src)
			}
		}

		for _, dir := range PackageDirs {
			src := filepath.Join(r.buildFolder, dir)
			dst := filepath.Join(r.packageFolder, dir)
			copied, err := file.CopyTree(r.fs, src, dst)
			if err != nil {
				return wrapRecipeError(err)
			}
			r.logger.Info().Str("dir", dir).Int("files", len(copied)).Msg("Packaged")
		}
		return nil
	})
}

// ArchiveName is the distributable archive name for the current platform.
func (r *Recipe) ArchiveName() string {
	return fmt.Sprintf("%s_%s_%s_%s.zip", r.Name, r.Version, runtime.GOOS, runtime.GOARCH)
}

// Archive zips the package folder into a file next to it and returns the
// archive path. Package must have run.
func (r *Recipe) Archive() (archive string, err error) {
	err = r.step("archive", func() error {
		if r.Name == "" || r.Version == "" {
			return ErrNoName
		}
		archive = filepath.Join(filepath.Dir(r.packageFolder), r.ArchiveName())
		if err := file.Zip(r.fs, r.packageFolder, archive); err != nil {
			return wrapRecipeError(err)
		}
		r.logger.Info().Str("archive", archive).Msg("Package archived")
		return nil
	})
	return
}
