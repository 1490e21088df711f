// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"context"
	"io"

	"github.com/spf13/afero"

	"github.com/navwar/gocopy/pkg/fs"
)

// contextReader stops reading once its context is done.
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.reader.Read(p)
}

// LocalFile is an open afero file.
type LocalFile struct {
	file afero.File
}

func (lf *LocalFile) Close() error {
	return lf.file.Close()
}

func (lf *LocalFile) Name() string {
	return lf.file.Name()
}

func (lf *LocalFile) Read(p []byte) (int, error) {
	return lf.file.Read(p)
}

func (lf *LocalFile) Seek(offset int64, whence int) (int64, error) {
	return lf.file.Seek(offset, whence)
}

func (lf *LocalFile) Write(p []byte) (int, error) {
	return lf.file.Write(p)
}

func (lf *LocalFile) WriteAt(p []byte, off int64) (int, error) {
	return lf.file.WriteAt(p, off)
}

// WriteTo copies the remaining contents of the file to w,
// checking the context before every read.
func (lf *LocalFile) WriteTo(ctx context.Context, w fs.Writer) (int64, error) {
	return io.Copy(w, &contextReader{ctx: ctx, reader: lf.file})
}

func NewLocalFile(file afero.File) *LocalFile {
	return &LocalFile{
		file: file,
	}
}
