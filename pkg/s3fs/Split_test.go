// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Split("a/b"))
	assert.Equal(t, []string{"a", "b"}, Split("a/b/"))
	assert.Equal(t, []string{"/", "a", "b"}, Split("/a/b/"))
	assert.Equal(t, []string{"/", "a", "b"}, Split("/a//b"))
	assert.Equal(t, []string{"/"}, Split("/"))
	assert.Equal(t, []string{}, Split(""))
}

func TestDir(t *testing.T) {
	assert.Equal(t, ".", Dir(""))
	assert.Equal(t, ".", Dir("a"))
	assert.Equal(t, "/", Dir("/"))
	assert.Equal(t, "/", Dir("/a"))
	assert.Equal(t, "/a", Dir("/a/b"))
	assert.Equal(t, "a/b", Dir("a/b/c.txt"))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("bucket/a", "bucket/b"))
	assert.NoError(t, Check("bucket/a", "other/a"))
	assert.Error(t, Check("bucket/a", "bucket/a"))
	assert.Error(t, Check("bucket/a", "bucket/a/b"))
	assert.Error(t, Check("bucket/a/b", "bucket/a"))
	assert.Error(t, Check("bucket", "bucket/a"))
}
