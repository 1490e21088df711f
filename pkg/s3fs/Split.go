// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package s3fs

import (
	"strings"
)

// Split splits the s3 path using "/".
// A leading slash is returned as the first element and empty elements are dropped.
func Split(p string) []string {
	parts := []string{}
	if strings.HasPrefix(p, "/") {
		parts = append(parts, "/")
	}
	for _, part := range strings.Split(p, "/") {
		if len(part) > 0 {
			parts = append(parts, part)
		}
	}
	return parts
}
