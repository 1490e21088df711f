// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"fmt"
	"os"
)

// Copy copies the contents of the source file to the destination file.
// An existing destination file is truncated and overwritten, and is given
// the permission bits of the source file.
func Copy(ctx context.Context, input *CopyInput) error {
	if input.Logger != nil {
		_ = input.Logger.Log("Copying file", map[string]interface{}{
			"src": input.SourceName,
			"dst": input.DestinationName,
		})
	}

	// check parent directory and create it if allowed
	if input.MakeParents {
		parent := input.DestinationFileSystem.Dir(input.DestinationName)
		if _, err := input.DestinationFileSystem.Stat(ctx, parent); err != nil {
			if !input.DestinationFileSystem.IsNotExist(err) {
				return fmt.Errorf("error stating destination parent %q: %w", parent, err)
			}
			if err := input.DestinationFileSystem.MkdirAll(ctx, parent, 0755); err != nil {
				return fmt.Errorf("error creating parent directories for %q: %w", input.DestinationName, err)
			}
		}
	}

	sourceFileInfo, err := input.SourceFileSystem.Stat(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error stating source file at %q: %w", input.SourceName, err)
	}
	perm := sourceFileInfo.Mode().Perm()

	// open source file
	sourceFile, err := input.SourceFileSystem.Open(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error opening source file at %q: %w", input.SourceName, err)
	}

	// open destination file
	destinationFile, err := input.DestinationFileSystem.OpenFile(ctx, input.DestinationName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		_ = sourceFile.Close() // silently close source file
		return fmt.Errorf("error creating destination file at %q: %w", input.DestinationName, err)
	}

	// copy bytes from source to destination
	written, err := sourceFile.WriteTo(ctx, destinationFile)
	if err != nil {
		_ = sourceFile.Close()      // silently close source file
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error copying from %q to %q: %w", input.SourceName, input.DestinationName, err)
	}

	err = sourceFile.Close()
	if err != nil {
		_ = destinationFile.Close() // silently close destination file
		return fmt.Errorf("error closing source file after copying: %w", err)
	}

	err = destinationFile.Close()
	if err != nil {
		return fmt.Errorf("error closing destination file after copying: %w", err)
	}

	// the mode given to OpenFile is masked by the umask and ignored for existing files
	err = input.DestinationFileSystem.Chmod(ctx, input.DestinationName, perm)
	if err != nil {
		return fmt.Errorf("error changing mode of destination file %q to %s: %w", input.DestinationName, perm, err)
	}

	if input.Logger != nil {
		_ = input.Logger.Log("Done copying file", map[string]interface{}{
			"src":     input.SourceName,
			"dst":     input.DestinationName,
			"written": written,
		})
	}

	return nil
}
