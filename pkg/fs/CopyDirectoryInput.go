// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

type CopyDirectoryInput struct {
	DestinationDirectory  string
	DestinationFileSystem FileSystem
	Logger                Logger
	SourceDirectory       string
	SourceFileSystem      FileSystem
	SymlinkPolicy         SymlinkPolicy
}
