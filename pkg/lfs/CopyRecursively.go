// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"context"

	"github.com/navwar/gocopy/pkg/fs"
)

// CopyRecursively copies the local directory at source to destination.
// See fs.CopyDirectory for the semantics of the copy.
func CopyRecursively(ctx context.Context, source string, destination string) error {
	fileSystem := NewLocalFileSystem("")
	return fs.CopyDirectory(ctx, &fs.CopyDirectoryInput{
		SourceDirectory:       source,
		SourceFileSystem:      fileSystem,
		DestinationDirectory:  destination,
		DestinationFileSystem: fileSystem,
		SymlinkPolicy:         fs.SymlinkPolicyFollow,
	})
}
