// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

type VerifyInput struct {
	DestinationDirectory  string
	DestinationFileSystem FileSystem
	SourceDirectory       string
	SourceFileSystem      FileSystem
	SymlinkPolicy         SymlinkPolicy
}
