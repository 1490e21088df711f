// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/navwar/gocopy/pkg/fs"
)

// LocalFileSystem is a file system backed by afero.
// Names are joined to the root before they are passed to the underlying file system.
type LocalFileSystem struct {
	root string
	fs   afero.Fs
}

// path returns the name of the file in the underlying file system.
func (lfs *LocalFileSystem) path(name string) string {
	if len(lfs.root) == 0 {
		return name
	}
	return filepath.Join(lfs.root, name)
}

func (lfs *LocalFileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Chmod(lfs.path(name), mode)
}

func (lfs *LocalFileSystem) Dir(name string) string {
	return Dir(name)
}

func (lfs *LocalFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func (lfs *LocalFileSystem) Join(name ...string) string {
	return filepath.Join(name...)
}

func (lfs *LocalFileSystem) Lstat(ctx context.Context, name string) (fs.FileInfo, error) {
	if lstater, ok := lfs.fs.(afero.Lstater); ok {
		fi, _, err := lstater.LstatIfPossible(lfs.path(name))
		if err != nil {
			return nil, err
		}
		return fi, nil
	}
	return lfs.Stat(ctx, name)
}

func (lfs *LocalFileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.MkdirAll(lfs.path(name), mode)
}

func (lfs *LocalFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	f, err := lfs.fs.Open(lfs.path(name))
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	f, err := lfs.fs.OpenFile(lfs.path(name), flag, perm)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

// ReadDir returns the entries of the directory in the order reported by the underlying file system.
// Entries describe the directory entry itself and do not follow symbolic links.
func (lfs *LocalFileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	f, err := lfs.fs.Open(lfs.path(name))
	if err != nil {
		return nil, err
	}

	fileInfos, err := f.Readdir(-1)
	if err != nil {
		_ = f.Close() // silently close directory
		return nil, err
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("error closing directory %q: %w", name, err)
	}

	directoryEntries := make([]fs.DirectoryEntry, 0, len(fileInfos))
	for _, fi := range fileInfos {
		directoryEntries = append(directoryEntries, NewLocalDirectoryEntry(fi))
	}
	return directoryEntries, nil
}

func (lfs *LocalFileSystem) Readlink(ctx context.Context, name string) (string, error) {
	if linkReader, ok := lfs.fs.(afero.LinkReader); ok {
		return linkReader.ReadlinkIfPossible(lfs.path(name))
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (lfs *LocalFileSystem) Relative(ctx context.Context, basepath string, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}

func (lfs *LocalFileSystem) Remove(ctx context.Context, name string) error {
	return lfs.fs.Remove(lfs.path(name))
}

func (lfs *LocalFileSystem) Root() string {
	return "file://" + lfs.root
}

// SameFile reports whether a and b describe the same file.
// File information that did not come from the operating system is never the same file.
func (lfs *LocalFileSystem) SameFile(a fs.FileInfo, b fs.FileInfo) bool {
	return os.SameFile(a, b)
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	fi, err := lfs.fs.Stat(lfs.path(name))
	if err != nil {
		return nil, err
	}
	return fi, nil
}

// Symlink creates newname as a symbolic link to oldname.
// The target is written as given, so relative targets stay relative.
func (lfs *LocalFileSystem) Symlink(ctx context.Context, oldname string, newname string) error {
	if linker, ok := lfs.fs.(afero.Linker); ok {
		return linker.SymlinkIfPossible(oldname, lfs.path(newname))
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}

func NewLocalFileSystem(rootPath string) *LocalFileSystem {
	return &LocalFileSystem{
		root: rootPath,
		fs:   afero.NewOsFs(),
	}
}

func NewReadOnlyLocalFileSystem(rootPath string) *LocalFileSystem {
	return &LocalFileSystem{
		root: rootPath,
		fs:   afero.NewReadOnlyFs(afero.NewOsFs()),
	}
}

// NewMemoryFileSystem returns a file system that only exists in memory.
func NewMemoryFileSystem() *LocalFileSystem {
	return &LocalFileSystem{
		root: "",
		fs:   afero.NewMemMapFs(),
	}
}
