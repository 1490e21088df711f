// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"fmt"
	"path"
	"strings"
)

// Check returns an error if the source and destination, given as "bucket/key" paths,
// are the same or one contains the other.
func Check(source string, destination string) error {
	s := path.Clean("/" + source)
	d := path.Clean("/" + destination)
	switch {
	case s == d:
		return fmt.Errorf("source and destination must be different: %q", "s3://"+source)
	case strings.HasPrefix(s, strings.TrimSuffix(d, "/")+"/"):
		return fmt.Errorf("cycle error: destination %q is a parent of source %q", "s3://"+destination, "s3://"+source)
	case strings.HasPrefix(d, strings.TrimSuffix(s, "/")+"/"):
		return fmt.Errorf("cycle error: source %q is a parent of destination %q", "s3://"+source, "s3://"+destination)
	}
	return nil
}
