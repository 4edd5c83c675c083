package recipe

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildTree = map[string]string{
	"include/exqudens/usb/Client.hpp":         "client",
	"include/exqudens/usb/IClient.hpp":        "iclient",
	"cmake/exqudens-usb-config.cmake":         "config",
	"cmake/exqudens-usb-config-version.cmake": "version",
	"lib/libexqudens-usb.so":                  "so",
	"lib/libexqudens-usb.a":                   "a",
	"lib/exqudens-usb-test.lib":               "lib",
	"lib/pkgconfig/exqudens-usb.pc":           "pc",
	"bin/libusb-1.0.dll":                      "dll",
}

func writeBuildTree(t *testing.T, fsys afero.Fs, root string) {
	t.Helper()
	for name, content := range buildTree {
		writeFile(t, fsys, filepath.Join(root, name), content)
	}
}

func TestPackage(t *testing.T) {
	r, fsys, _ := newTestRecipe(t, nil)
	writeBuildTree(t, fsys, "/work/build")
	// not part of the package
	writeFile(t, fsys, "/work/build/CMakeCache.txt", "cache")

	require.NoError(t, r.Package())

	for name, content := range buildTree {
		b, err := afero.ReadFile(fsys, filepath.Join("/work/package", name))
		if assert.NoError(t, err, name) {
			assert.Equal(t, content, string(b), name)
		}
	}
	exists, _ := afero.Exists(fsys, "/work/package/CMakeCache.txt")
	assert.False(t, exists)
}

func TestPackageMissingDirectory(t *testing.T) {
	for _, missing := range PackageDirs {
		t.Run(missing, func(t *testing.T) {
			r, fsys, logs := newTestRecipe(t, nil)
			for _, dir := range PackageDirs {
				if dir != missing {
					writeFile(t, fsys, filepath.Join("/work/build", dir, "file.txt"), dir)
				}
			}

			err := r.Package()
			assert.ErrorIs(t, err, ErrMissingDirectory)
			assert.Contains(t, logs.String(), `"step":"package"`)

			// nothing was copied
			exists, _ := afero.Exists(fsys, "/work/package")
			assert.False(t, exists)
		})
	}
}

func TestPackageSameFolder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var logs bytes.Buffer
	r := New("/work",
		WithFs(fsys),
		WithLogger(zerolog.New(&logs)),
		WithResolver(&fakeResolver{}),
		WithBuildFolder("out"),
		WithPackageFolder("/work/out/"),
	)
	writeBuildTree(t, fsys, "/work/out")

	err := r.Package()
	assert.ErrorIs(t, err, ErrSameFolder)
	assert.Contains(t, logs.String(), `"step":"package"`)

	b, err := afero.ReadFile(fsys, "/work/out/include/exqudens/usb/Client.hpp")
	require.NoError(t, err)
	assert.Equal(t, "client", string(b))
}

func TestPackageSymlinkedLibrary(t *testing.T) {
	root := t.TempDir()
	build := filepath.Join(root, "build")
	for _, dir := range PackageDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(build, dir), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(build, "lib", "libexqudens-usb.so.2.0.1"), []byte("elf"), 0644))
	if err := os.Symlink("libexqudens-usb.so.2.0.1", filepath.Join(build, "lib", "libexqudens-usb.so")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	r := New(root, WithFs(afero.NewOsFs()), WithLogger(zerolog.Nop()), WithResolver(&fakeResolver{}))
	r.Name = "exqudens-usb"

	libs, err := collectLibs(afero.NewOsFs(), filepath.Join(build, "lib"))
	require.NoError(t, err)
	assert.Equal(t, []string{"exqudens-usb"}, libs)

	require.NoError(t, r.Package())
	info, err := os.Lstat(filepath.Join(root, "package", "lib", "libexqudens-usb.so"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)

	require.NoError(t, r.PackageInfo())
	assert.Equal(t, []string{"exqudens-usb"}, r.CppInfo.Libs)
}

func TestPackageInfo(t *testing.T) {
	r, fsys, _ := newTestRecipe(t, nil)
	writeBuildTree(t, fsys, "/work/package")
	r.Name = "exqudens-usb"

	require.NoError(t, r.PackageInfo())
	assert.Equal(t, map[string]string{"cmake_file_name": "exqudens-usb"}, r.CppInfo.Properties)
	assert.Equal(t, []string{"exqudens-usb-test", "exqudens-usb"}, r.CppInfo.Libs)
}

func TestPackageInfoNoName(t *testing.T) {
	r, _, _ := newTestRecipe(t, nil)
	assert.ErrorIs(t, r.PackageInfo(), ErrNoName)
}

func TestCollectLibs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, name := range []string{"libusb-1.0.so", "libusb-1.0.a", "usb-1.0.lib", "libfoo.dylib", "readme.md", "libbar.bc"} {
		writeFile(t, fsys, filepath.Join("/lib", name), "x")
	}
	libs, err := collectLibs(fsys, "/lib")
	require.NoError(t, err)

	sort.Strings(libs)
	assert.Equal(t, []string{"bar", "foo", "usb-1.0"}, libs)

	libs, err = collectLibs(fsys, "/none")
	require.NoError(t, err)
	assert.Empty(t, libs)
}

func TestCreateAndArchive(t *testing.T) {
	r, fsys, _ := newTestRecipe(t, &fakeResolver{deps: testDeps()})
	writeFile(t, fsys, "/work/name-version.txt", "exqudens-usb:2.0.1")
	writeBuildTree(t, fsys, "/work/build")
	writeFile(t, fsys, "/conan/p/libusb/p/bin/libusb-1.0.dll", "libusb")

	require.NoError(t, r.Create(context.Background()))
	assert.Equal(t, "exqudens-usb", r.Name)
	assert.Equal(t, "2.0.1", r.Version)
	assert.Equal(t, []string{"exqudens-usb-test", "exqudens-usb"}, r.CppInfo.Libs)

	// generated files are part of the build folder but only the four trees are packaged
	exists, _ := afero.Exists(fsys, "/work/package/conan-packages.cmake")
	assert.False(t, exists)
	exists, _ = afero.Exists(fsys, "/work/package/bin/libusb-1.0.dll")
	assert.True(t, exists)

	archive, err := r.Archive()
	require.NoError(t, err)
	want := "exqudens-usb_2.0.1_" + runtime.GOOS + "_" + runtime.GOARCH + ".zip"
	assert.Equal(t, filepath.Join("/work", want), archive)

	f, err := fsys.Open(archive)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	zipr, err := zip.NewReader(f, info.Size())
	require.NoError(t, err)

	var names []string
	for _, entry := range zipr.File {
		names = append(names, entry.Name)
	}
	assert.Contains(t, names, "include/exqudens/usb/Client.hpp")
	assert.Contains(t, names, "lib/libexqudens-usb.so")
	assert.Len(t, names, len(buildTree))
}

func TestCreateStopsOnFailure(t *testing.T) {
	r, fsys, _ := newTestRecipe(t, &fakeResolver{})
	writeFile(t, fsys, "/work/name-version.txt", "exqudens-usb")

	assert.ErrorIs(t, r.Create(context.Background()), ErrInvalidFormat)
	exists, _ := afero.Exists(fsys, "/work/build")
	assert.False(t, exists)
}

func TestArchiveNoName(t *testing.T) {
	r, _, _ := newTestRecipe(t, nil)
	_, err := r.Archive()
	assert.ErrorIs(t, err, ErrNoName)
}
