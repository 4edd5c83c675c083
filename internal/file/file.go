// Package file provides the copy and archive helpers used to stage build
// artifacts. All functions work on an afero.Fs so they can run against an
// in-memory filesystem in tests.
package file

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var (
	ErrNotDir   = errors.New("file: not a directory")
	ErrSameFile = errors.New("file: source and destination are the same file")
)

func sameFile(fsys afero.Fs, src, dst string) bool {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return true
	}
	a, err := fsys.Stat(src)
	if err != nil {
		return false
	}
	b, err := fsys.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(a, b)
}

// sameLink is sameFile without following symlinks.
func sameLink(fsys afero.Fs, src, dst string) bool {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return true
	}
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return false
	}
	a, _, err := lstater.LstatIfPossible(src)
	if err != nil {
		return false
	}
	b, _, err := lstater.LstatIfPossible(dst)
	if err != nil {
		return false
	}
	return os.SameFile(a, b)
}

// CopyFile copies a single file, creating parent directories of dst.
// Copying a file onto itself is rejected with ErrSameFile.
func CopyFile(fsys afero.Fs, src, dst string) error {
	if sameFile(fsys, src, dst) {
		return fmt.Errorf("%w: %s", ErrSameFile, src)
	}
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// linkTarget returns the target of the symlink at path when fsys can both
// read and create links and the target is relative, so that it stays valid
// after a copy.
func linkTarget(fsys afero.Fs, path string) (string, bool, error) {
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return "", false, nil
	}
	if _, ok := fsys.(afero.Linker); !ok {
		return "", false, nil
	}
	target, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return "", false, err
	}
	return target, !filepath.IsAbs(target), nil
}

// CopyLink recreates the symlink src at dst. Absolute links, or links on a
// filesystem without symlink support, are copied as the file they point to.
func CopyLink(fsys afero.Fs, src, dst string) error {
	target, ok, err := linkTarget(fsys, src)
	if err != nil {
		return err
	}
	if !ok {
		return CopyFile(fsys, src, dst)
	}
	if sameLink(fsys, src, dst) {
		return fmt.Errorf("%w: %s", ErrSameFile, src)
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := fsys.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return fsys.(afero.Linker).SymlinkIfPossible(target, dst)
}

// CopyFilePattern walks srcDir and copies every file or symlink whose base
// name matches pattern into dstDir, keeping the path relative to srcDir.
// Symlinks to directories are not followed. It returns the destination
// paths of the copied entries.
func CopyFilePattern(fsys afero.Fs, srcDir, dstDir, pattern string) (copied []string, err error) {
	if _, err = filepath.Match(pattern, ""); err != nil {
		return
	}
	err = afero.Walk(fsys, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		link := info.Mode()&fs.ModeSymlink != 0
		if !info.Mode().IsRegular() && !link {
			return nil
		}
		if ok, _ := filepath.Match(pattern, info.Name()); !ok {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)
		if link {
			if fi, err := fsys.Stat(path); err == nil && fi.IsDir() {
				return nil
			}
			err = CopyLink(fsys, path, dst)
		} else {
			err = CopyFile(fsys, path, dst)
		}
		if err != nil {
			return err
		}
		copied = append(copied, dst)
		return nil
	})
	return
}

// CopyTree copies every file and symlink under srcDir into dstDir.
// srcDir must exist and be a directory.
func CopyTree(fsys afero.Fs, srcDir, dstDir string) ([]string, error) {
	info, err := fsys.Stat(srcDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, srcDir)
	}
	if err := fsys.MkdirAll(dstDir, 0755); err != nil {
		return nil, err
	}
	return CopyFilePattern(fsys, srcDir, dstDir, "*")
}

// Zip archives every file under dir into zipPath. Entry names are relative
// to dir and use forward slashes. Relative symlinks are stored as links,
// other symlinks as the file they point to.
func Zip(fsys afero.Fs, dir, zipPath string) error {
	out, err := fsys.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := zip.NewWriter(out)

	err = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			target, ok, err := linkTarget(fsys, path)
			if err != nil {
				return err
			}
			if ok {
				return zipLink(w, info, filepath.ToSlash(rel), target)
			}
			if info, err = fsys.Stat(path); err != nil {
				return err
			}
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		entry, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		in, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(entry, in)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func zipLink(w *zip.Writer, info fs.FileInfo, name, target string) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Store
	entry, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.WriteString(entry, filepath.ToSlash(target))
	return err
}
