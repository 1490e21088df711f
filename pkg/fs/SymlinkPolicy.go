// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"fmt"
)

// SymlinkPolicy describes how symbolic links found in a source directory are copied.
type SymlinkPolicy string

const (
	// SymlinkPolicyFollow copies the file or directory the link points to.
	SymlinkPolicyFollow SymlinkPolicy = "follow"
	// SymlinkPolicyPreserve recreates the link at the destination.
	SymlinkPolicyPreserve SymlinkPolicy = "preserve"
	// SymlinkPolicySkip ignores symbolic links.
	SymlinkPolicySkip SymlinkPolicy = "skip"
)

// SymlinkPolicies lists the supported policies, starting with the default.
var SymlinkPolicies = []SymlinkPolicy{
	SymlinkPolicyFollow,
	SymlinkPolicyPreserve,
	SymlinkPolicySkip,
}

// ParseSymlinkPolicy returns the policy with the given name.
// An empty string returns the default policy, which is to follow links.
func ParseSymlinkPolicy(str string) (SymlinkPolicy, error) {
	if len(str) == 0 {
		return SymlinkPolicyFollow, nil
	}
	for _, p := range SymlinkPolicies {
		if string(p) == str {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown symbolic link policy %q, expecting one of %q", str, SymlinkPolicies)
}
