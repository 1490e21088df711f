// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"fmt"
	"io"
)

// ReadFile reads the file with the given name until EOF and returns the contents.
func ReadFile(ctx context.Context, fileSystem FileSystem, name string) ([]byte, error) {
	f, err := fileSystem.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error opening file %q: %w", name, err)
	}

	b, err := io.ReadAll(f)
	if err != nil {
		_ = f.Close() // silently close file
		return nil, fmt.Errorf("error reading file %q: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("error closing file %q: %w", name, err)
	}

	return b, nil
}
