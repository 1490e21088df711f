// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"path"
	"strings"
)

// Dir returns the prefix containing the key or prefix p.
// The trailing slash of a directory marker is ignored.
func Dir(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if len(trimmed) == 0 {
		if len(p) > 0 {
			return "/"
		}
		return "."
	}
	return path.Dir(trimmed)
}
