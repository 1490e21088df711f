// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"io"
)

// Writer is the destination side of a file transfer.
// Backends that cannot write at an offset return an error from WriteAt.
type Writer interface {
	io.Writer
	io.WriterAt
}
