// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ParseLocation returns the named location, the local location for "Local",
// or a fixed zone for a whole number of hours offset from UTC, e.g., "-8".
func ParseLocation(location string) (*time.Location, error) {
	if location == "" {
		return nil, errors.New("cannot parse location from empty string")
	}
	if location == "Local" {
		return time.Local, nil
	}
	if hours, err := strconv.Atoi(location); err == nil {
		if hours < -12 || hours > 14 {
			return nil, fmt.Errorf("offset %d is out of range", hours)
		}
		return time.FixedZone("UTC"+location, hours*60*60), nil
	}
	return time.LoadLocation(location)
}
