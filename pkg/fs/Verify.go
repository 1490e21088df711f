// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
)

// Verify checks that every file below the source directory exists below the destination
// directory with the same contents.  Entries that only exist at the destination are ignored.
func Verify(ctx context.Context, input *VerifyInput) (int, error) {
	return verifyDirectory(ctx, input, input.SourceDirectory, input.DestinationDirectory, []string{input.SourceDirectory})
}

func verifyDirectory(ctx context.Context, input *VerifyInput, sourceDirectory string, destinationDirectory string, ancestors []string) (int, error) {
	sourceDirectoryEntries, err := input.SourceFileSystem.ReadDir(ctx, sourceDirectory)
	if err != nil {
		return 0, fmt.Errorf("error reading source directory %q: %w", sourceDirectory, err)
	}

	count := 0

	for _, sourceDirectoryEntry := range sourceDirectoryEntries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		sourceName := input.SourceFileSystem.Join(sourceDirectory, sourceDirectoryEntry.Name())
		destinationName := input.DestinationFileSystem.Join(destinationDirectory, sourceDirectoryEntry.Name())

		isDir := sourceDirectoryEntry.IsDir()
		if sourceDirectoryEntry.Type()&os.ModeSymlink != 0 {
			switch input.SymlinkPolicy {
			case SymlinkPolicySkip:
				continue
			case SymlinkPolicyPreserve:
				if err := verifySymlink(ctx, input, sourceName, destinationName); err != nil {
					return 0, err
				}
				count += 1
				continue
			case SymlinkPolicyFollow, "":
			default:
				return 0, fmt.Errorf("unknown symbolic link policy %q", input.SymlinkPolicy)
			}
			target, err := input.SourceFileSystem.Stat(ctx, sourceName)
			if err != nil {
				return 0, fmt.Errorf("error following symbolic link %q: %w", sourceName, err)
			}
			if target.IsDir() {
				if err := checkCycle(ctx, input.SourceFileSystem, sourceName, target, ancestors); err != nil {
					return 0, err
				}
			}
			isDir = target.IsDir()
		}

		if isDir {
			c, err := verifyDirectory(ctx, input, sourceName, destinationName, append(ancestors, sourceName))
			if err != nil {
				return 0, err
			}
			count += c
			continue
		}

		sourceBytes, err := ReadFile(ctx, input.SourceFileSystem, sourceName)
		if err != nil {
			return 0, err
		}
		destinationBytes, err := ReadFile(ctx, input.DestinationFileSystem, destinationName)
		if err != nil {
			return 0, err
		}
		if !bytes.Equal(sourceBytes, destinationBytes) {
			return 0, fmt.Errorf(
				"contents of destination %q (%d bytes) do not match source %q (%d bytes)",
				destinationName,
				len(destinationBytes),
				sourceName,
				len(sourceBytes))
		}
		count += 1
	}

	return count, nil
}

func verifySymlink(ctx context.Context, input *VerifyInput, sourceName string, destinationName string) error {
	sourceTarget, err := input.SourceFileSystem.Readlink(ctx, sourceName)
	if err != nil {
		return fmt.Errorf("error reading symbolic link %q: %w", sourceName, err)
	}
	destinationTarget, err := input.DestinationFileSystem.Readlink(ctx, destinationName)
	if err != nil {
		return fmt.Errorf("error reading symbolic link %q: %w", destinationName, err)
	}
	if sourceTarget != destinationTarget {
		return fmt.Errorf("symbolic link %q points to %q, but source %q points to %q", destinationName, destinationTarget, sourceName, sourceTarget)
	}
	return nil
}
