// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// contains reports whether child is below parent.
func contains(parent string, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Check returns an error if the source and destination are the same directory or
// if one contains the other.  Copying a directory into itself never terminates,
// since every pass creates another directory to copy.
func Check(source string, destination string) error {
	s := filepath.Clean(source)
	d := filepath.Clean(destination)
	switch {
	case s == d:
		return fmt.Errorf("source and destination must be different: %q", "file://"+source)
	case contains(d, s):
		return fmt.Errorf("cycle error: destination %q is a parent of source %q", destination, source)
	case contains(s, d):
		return fmt.Errorf("cycle error: source %q is a parent of destination %q", source, destination)
	}
	return nil
}
