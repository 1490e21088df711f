// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

// Logger receives progress messages from copy and verify operations.
// Fields are merged into a single structured log entry.
type Logger interface {
	Log(msg string, fields ...map[string]interface{}) error
}
