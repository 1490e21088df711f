// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"io"
)

// File is an open file on a FileSystem.
// Files opened for reading may not support writing and files opened for writing
// may not support reading, in which case the unsupported methods return an error.
type File interface {
	io.ReadSeekCloser
	Writer
	Name() string
	// WriteTo copies the contents of the file to w.  Backends may write
	// ranges concurrently through w.WriteAt.
	WriteTo(ctx context.Context, w Writer) (int64, error)
}
