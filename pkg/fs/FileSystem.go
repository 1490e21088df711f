// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"os"
)

// FileSystem is the set of operations a backend must support to be used as
// the source or destination of a copy.
type FileSystem interface {
	Chmod(ctx context.Context, name string, mode os.FileMode) error
	Dir(name string) string
	IsNotExist(err error) bool
	Join(name ...string) string
	Lstat(ctx context.Context, name string) (FileInfo, error)
	MkdirAll(ctx context.Context, name string, mode os.FileMode) error
	Open(ctx context.Context, name string) (File, error)
	OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (File, error)
	ReadDir(ctx context.Context, name string) ([]DirectoryEntry, error)
	Readlink(ctx context.Context, name string) (string, error)
	Relative(ctx context.Context, basepath string, targpath string) (string, error)
	Remove(ctx context.Context, name string) error
	Root() string
	SameFile(a FileInfo, b FileInfo) bool
	Stat(ctx context.Context, name string) (FileInfo, error)
	Symlink(ctx context.Context, oldname string, newname string) error
}
