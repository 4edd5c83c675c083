package recipe

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exqudens/usbrecipe/upstream"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	deps     []upstream.Dependency
	err      error
	requires []upstream.Requirement
}

func (f *fakeResolver) Name() string { return "fake" }

func (f *fakeResolver) Resolve(_ context.Context, requires []upstream.Requirement) ([]upstream.Dependency, error) {
	f.requires = requires
	return f.deps, f.err
}

func newTestRecipe(t *testing.T, resolver upstream.Resolver) (*Recipe, afero.Fs, *bytes.Buffer) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	var logs bytes.Buffer
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	r := New("/work",
		WithFs(fsys),
		WithLogger(zerolog.New(&logs)),
		WithResolver(resolver),
	)
	return r, fsys, &logs
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
}

func TestNewFolders(t *testing.T) {
	r, _, _ := newTestRecipe(t, nil)
	assert.Equal(t, "/work", r.RecipeDir())
	assert.Equal(t, filepath.Join("/work", "build"), r.BuildFolder())
	assert.Equal(t, filepath.Join("/work", "package"), r.PackageFolder())

	r = New("/work", WithFs(afero.NewMemMapFs()), WithBuildFolder("/tmp/b"), WithPackageFolder("out"))
	assert.Equal(t, "/tmp/b", r.BuildFolder())
	assert.Equal(t, filepath.Join("/work", "out"), r.PackageFolder())
}

func TestSetNameVersion(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, fsys, _ := newTestRecipe(t, nil)
		writeFile(t, fsys, "/work/name-version.txt", "foo:1.2.3")

		require.NoError(t, r.SetName())
		require.NoError(t, r.SetVersion())
		assert.Equal(t, "foo", r.Name)
		assert.Equal(t, "1.2.3", r.Version)
	})

	t.Run("whitespace", func(t *testing.T) {
		r, fsys, _ := newTestRecipe(t, nil)
		writeFile(t, fsys, "/work/name-version.txt", " exqudens-usb : 1.0.0 \r\n")

		require.NoError(t, r.SetName())
		require.NoError(t, r.SetVersion())
		assert.Equal(t, "exqudens-usb", r.Name)
		assert.Equal(t, "1.0.0", r.Version)
	})

	t.Run("no-colon", func(t *testing.T) {
		r, fsys, logs := newTestRecipe(t, nil)
		writeFile(t, fsys, "/work/name-version.txt", "foo-1.2.3")

		err := r.SetName()
		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.ErrorIs(t, r.SetVersion(), ErrInvalidFormat)
		assert.Empty(t, r.Name)
		// the failure is logged before it is returned
		assert.Contains(t, logs.String(), `"level":"error"`)
		assert.Contains(t, logs.String(), `"step":"set_name"`)
		assert.Contains(t, logs.String(), `"step":"set_version"`)
	})

	t.Run("empty-version", func(t *testing.T) {
		r, fsys, _ := newTestRecipe(t, nil)
		writeFile(t, fsys, "/work/name-version.txt", "foo:")
		assert.ErrorIs(t, r.SetVersion(), ErrInvalidFormat)
	})

	t.Run("missing-file", func(t *testing.T) {
		r, _, logs := newTestRecipe(t, nil)
		err := r.SetName()
		require.Error(t, err)
		assert.True(t, errors.Is(err, afero.ErrFileNotFound) || strings.Contains(err.Error(), "not exist"))
		assert.Contains(t, logs.String(), `"step":"set_name"`)
	})
}

func TestRequirements(t *testing.T) {
	r, _, _ := newTestRecipe(t, nil)
	require.NoError(t, r.Requirements())

	require.Len(t, r.Requires, 1)
	assert.Equal(t, "libusb/1.0.26", r.Requires[0].String())
	assert.True(t, r.Requires[0].TransitiveHeaders)
}
