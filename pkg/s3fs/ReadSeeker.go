// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"errors"
	"io"
)

// ReadAt reads len(p) bytes starting at offset.
type ReadAt func(offset int64, p []byte) (int, error)

// ReadSeeker reads an object of a known size using ranged reads.
type ReadSeeker struct {
	offset int64
	size   int64
	readAt ReadAt
}

func (rs *ReadSeeker) Read(p []byte) (int, error) {
	if rs.offset >= rs.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if remaining := rs.size - rs.offset; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := rs.readAt(rs.offset, p)
	rs.offset += int64(n)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (rs *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	next := int64(0)
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = rs.offset + offset
	case io.SeekEnd:
		next = rs.size + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative position")
	}
	rs.offset = next
	return next, nil
}

func NewReadSeeker(offset int64, size int64, readAt ReadAt) *ReadSeeker {
	return &ReadSeeker{
		offset: offset,
		size:   size,
		readAt: readAt,
	}
}
