//go:build linux || darwin

// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyRecursivelyNamedPipe(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	source := filepath.Join(tmp, "a")
	require.NoError(t, os.MkdirAll(source, 0755))
	pipe := filepath.Join(source, "pipe")
	require.NoError(t, syscall.Mkfifo(pipe, 0644))

	// opening a named pipe for reading blocks until it has a writer
	done := make(chan error, 1)
	go func() {
		f, err := os.OpenFile(pipe, os.O_WRONLY, 0)
		if err != nil {
			done <- err
			return
		}
		if _, err := f.Write([]byte("piped")); err != nil {
			_ = f.Close()
			done <- err
			return
		}
		done <- f.Close()
	}()

	destination := filepath.Join(tmp, "out")

	require.NoError(t, CopyRecursively(ctx, source, destination))
	require.NoError(t, <-done)

	fi, err := os.Lstat(filepath.Join(destination, "pipe"))
	require.NoError(t, err)
	assert.True(t, fi.Mode().IsRegular())
	assert.Equal(t, "piped", readFile(t, filepath.Join(destination, "pipe")))
}
