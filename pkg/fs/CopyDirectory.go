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
	"syscall"
)

// CopyDirectory recursively copies the source directory to the destination directory.
//
// The destination directory and any missing parents are created before the source
// directory is read, so the destination exists even if reading the source fails.
// Directories are traversed depth-first in the order returned by the source file system.
// Files at the destination are always overwritten and nothing at the destination is deleted.
// The first error aborts the copy and partially copied files are left in place.
func CopyDirectory(ctx context.Context, input *CopyDirectoryInput) error {
	return copyDirectory(ctx, input, input.SourceDirectory, input.DestinationDirectory, []string{input.SourceDirectory})
}

func copyDirectory(ctx context.Context, input *CopyDirectoryInput, sourceDirectory string, destinationDirectory string, ancestors []string) error {
	if input.Logger != nil {
		_ = input.Logger.Log("Copying directory", map[string]interface{}{
			"src": sourceDirectory,
			"dst": destinationDirectory,
		})
	}

	err := input.DestinationFileSystem.MkdirAll(ctx, destinationDirectory, 0755)
	if err != nil {
		return fmt.Errorf("error creating destination directory %q: %w", destinationDirectory, err)
	}

	sourceDirectoryEntries, err := input.SourceFileSystem.ReadDir(ctx, sourceDirectory)
	if err != nil {
		return fmt.Errorf("error reading source directory %q: %w", sourceDirectory, err)
	}

	for _, sourceDirectoryEntry := range sourceDirectoryEntries {
		if err := ctx.Err(); err != nil {
			return err
		}
		sourceName := input.SourceFileSystem.Join(sourceDirectory, sourceDirectoryEntry.Name())
		destinationName := input.DestinationFileSystem.Join(destinationDirectory, sourceDirectoryEntry.Name())
		switch {
		case sourceDirectoryEntry.IsDir():
			err := copyDirectory(ctx, input, sourceName, destinationName, append(ancestors, sourceName))
			if err != nil {
				return err
			}
		case sourceDirectoryEntry.Type()&os.ModeSymlink != 0:
			err := copySymlink(ctx, input, sourceName, destinationName, ancestors)
			if err != nil {
				return err
			}
		default:
			err := Copy(ctx, &CopyInput{
				SourceName:            sourceName,
				SourceFileSystem:      input.SourceFileSystem,
				DestinationName:       destinationName,
				DestinationFileSystem: input.DestinationFileSystem,
				Logger:                input.Logger,
			})
			if err != nil {
				return fmt.Errorf("error copying %q to %q: %w", sourceName, destinationName, err)
			}
		}
	}

	return nil
}

func copySymlink(ctx context.Context, input *CopyDirectoryInput, sourceName string, destinationName string, ancestors []string) error {
	switch input.SymlinkPolicy {
	case SymlinkPolicySkip:
		if input.Logger != nil {
			_ = input.Logger.Log("Skipping symbolic link", map[string]interface{}{
				"src": sourceName,
			})
		}
		return nil
	case SymlinkPolicyPreserve:
		target, err := input.SourceFileSystem.Readlink(ctx, sourceName)
		if err != nil {
			return fmt.Errorf("error reading symbolic link %q: %w", sourceName, err)
		}
		// a link cannot be created over an existing entry
		if _, err := input.DestinationFileSystem.Lstat(ctx, destinationName); err == nil {
			if err := input.DestinationFileSystem.Remove(ctx, destinationName); err != nil {
				return fmt.Errorf("error replacing %q with symbolic link: %w", destinationName, err)
			}
		} else if !input.DestinationFileSystem.IsNotExist(err) {
			return fmt.Errorf("error stating destination %q: %w", destinationName, err)
		}
		if err := input.DestinationFileSystem.Symlink(ctx, target, destinationName); err != nil {
			return fmt.Errorf("error creating symbolic link %q to %q: %w", destinationName, target, err)
		}
		return nil
	case SymlinkPolicyFollow, "":
		target, err := input.SourceFileSystem.Stat(ctx, sourceName)
		if err != nil {
			return fmt.Errorf("error following symbolic link %q: %w", sourceName, err)
		}
		if !target.IsDir() {
			err := Copy(ctx, &CopyInput{
				SourceName:            sourceName,
				SourceFileSystem:      input.SourceFileSystem,
				DestinationName:       destinationName,
				DestinationFileSystem: input.DestinationFileSystem,
				Logger:                input.Logger,
			})
			if err != nil {
				return fmt.Errorf("error copying %q to %q: %w", sourceName, destinationName, err)
			}
			return nil
		}
		if err := checkCycle(ctx, input.SourceFileSystem, sourceName, target, ancestors); err != nil {
			return err
		}
		return copyDirectory(ctx, input, sourceName, destinationName, append(ancestors, sourceName))
	}
	return fmt.Errorf("unknown symbolic link policy %q", input.SymlinkPolicy)
}

// checkCycle returns an error if the directory a link points to is one of the directories being copied.
func checkCycle(ctx context.Context, fileSystem FileSystem, name string, target FileInfo, ancestors []string) error {
	for _, ancestor := range ancestors {
		ancestorFileInfo, err := fileSystem.Stat(ctx, ancestor)
		if err != nil {
			return fmt.Errorf("error stating directory %q: %w", ancestor, err)
		}
		if fileSystem.SameFile(target, ancestorFileInfo) {
			return &os.PathError{Op: "copy", Path: name, Err: syscall.ELOOP}
		}
	}
	return nil
}
