// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

func isPathSeparator(r rune) bool {
	return r < utf8.RuneSelf && os.IsPathSeparator(uint8(r))
}

// Dir returns the parent directory of p.
// Trailing separators are ignored, so the parent of "a/b/" is "a".
func Dir(p string) string {
	trimmed := strings.TrimRightFunc(p, isPathSeparator)
	if len(trimmed) == 0 {
		if len(p) > 0 {
			return string(filepath.Separator)
		}
		return "."
	}
	return filepath.Dir(trimmed)
}
