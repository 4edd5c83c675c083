package recipe

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var libExtensions = map[string]struct{}{
	".so":    {},
	".lib":   {},
	".a":     {},
	".dylib": {},
	".bc":    {},
}

// CppInfo is what the package exposes to its consumers.
type CppInfo struct {
	Properties map[string]string `yaml:"properties"`
	Libs       []string          `yaml:"libs"`
}

// collectLibs lists the library names found in libDir, in file name order.
// "libfoo.so" and "libfoo.a" both yield "foo"; "foo.lib" keeps its name.
func collectLibs(fsys afero.Fs, libDir string) ([]string, error) {
	ok, err := afero.DirExists(fsys, libDir)
	if err != nil || !ok {
		return nil, err
	}
	entries, err := afero.ReadDir(fsys, libDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		// shared libraries are usually symlinks to the versioned file
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var libs []string
	seen := map[string]struct{}{}
	for _, f := range names {
		ext := filepath.Ext(f)
		if _, ok := libExtensions[ext]; !ok {
			continue
		}
		name := strings.TrimSuffix(f, ext)
		if ext != ".lib" {
			name = strings.TrimPrefix(name, "lib")
		}
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		libs = append(libs, name)
	}
	return libs, nil
}

// PackageInfo publishes the CMake package name and the libraries found in
// the package lib folder.
func (r *Recipe) PackageInfo() error {
	return r.step("package_info", func() error {
		if r.Name == "" {
			return ErrNoName
		}
		libDir := filepath.Join(r.packageFolder, "lib")
		libs, err := collectLibs(r.fs, libDir)
		if err != nil {
			return wrapRecipeError(err)
		}
		if len(libs) == 0 {
			r.logger.Warn().Str("dir", libDir).Msg("No libraries found in package")
		}
		r.CppInfo = CppInfo{
			Properties: map[string]string{CMakeFileNameProperty: r.Name},
			Libs:       libs,
		}
		return nil
	})
}
