// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gocopy/pkg/fs"
	"github.com/navwar/gocopy/pkg/lfs"
)

func writeObject(t *testing.T, fileSystem fs.FileSystem, name string, data string) {
	t.Helper()
	f, err := fileSystem.OpenFile(context.Background(), name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	require.NoError(t, err)
	_, err = f.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func entryNames(entries []fs.DirectoryEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func TestS3FileSystemRelative(t *testing.T) {
	ctx := context.Background()
	s3fs := &S3FileSystem{}

	base := "/a"

	relpath, err := s3fs.Relative(ctx, base, "/a")
	assert.NoError(t, err)
	assert.Equal(t, ".", relpath)

	relpath, err = s3fs.Relative(ctx, base, "/a/b/c")
	assert.NoError(t, err)
	assert.Equal(t, "b/c", relpath)

	relpath, err = s3fs.Relative(ctx, base, "/b/c")
	assert.NoError(t, err)
	assert.Equal(t, "../b/c", relpath)

	relpath, err = s3fs.Relative(ctx, base, "./b/c")
	assert.Error(t, err)
	assert.Equal(t, "Rel: can't make ./b/c relative to "+base, err.Error())
	assert.Equal(t, "", relpath)
}

func TestS3FileSystemRoot(t *testing.T) {
	assert.Equal(t, "s3://bucket", NewS3FileSystem(nil, "bucket", "", 0, false, 0).Root())
	assert.Equal(t, "s3://bucket/a/b", NewS3FileSystem(nil, "bucket", "/a/b/", 0, false, 0).Root())
}

func TestS3FileSystemKey(t *testing.T) {
	s3fs := NewS3FileSystem(nil, "bucket", "", 0, false, 0)
	assert.Equal(t, "", s3fs.key("/"))
	assert.Equal(t, "a/b.txt", s3fs.key("/a/b.txt"))
	assert.Equal(t, "a/b.txt", s3fs.key("a/b.txt"))

	s3fs = NewS3FileSystem(nil, "bucket", "prefix", 0, false, 0)
	assert.Equal(t, "prefix", s3fs.key("/"))
	assert.Equal(t, "prefix/a/b.txt", s3fs.key("/a/b.txt"))
}

func TestS3FileSystemReadDir(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["a/x.txt"] = []byte("hello")
	client.objects["a/b/y.txt"] = []byte("world")
	client.objects["a/empty/"] = []byte{}

	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	entries, err := s3fs.ReadDir(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "empty", "x.txt"}, entryNames(entries))
	for _, entry := range entries {
		assert.Equal(t, entry.Name() != "x.txt", entry.IsDir())
		assert.Equal(t, entry.IsDir(), entry.Type().IsDir())
	}

	entries, err = s3fs.ReadDir(ctx, "/a/empty")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = s3fs.ReadDir(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, entryNames(entries))

	_, err = s3fs.ReadDir(ctx, "/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestS3DirectoryEntryMarshalJSON(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["a/x.txt"] = []byte("hello")

	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	entries, err := s3fs.ReadDir(ctx, "/a")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := json.Marshal(entries[0])
	require.NoError(t, err)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "x.txt", m["name"])
	assert.Equal(t, false, m["dir"])
	assert.Equal(t, false, m["symlink"])
	assert.Equal(t, float64(5), m["size"])
}

func TestS3FileSystemChmod(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["a/x.txt"] = []byte("hello")

	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	require.NoError(t, s3fs.Chmod(ctx, "/a/x.txt", 0755))

	fi, err := s3fs.Stat(ctx, "/a/x.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), fi.Mode().Perm())
}

func TestS3FileSystemStat(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["a/x.txt"] = []byte("hello")
	client.objects["a/empty/"] = []byte{}

	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	fi, err := s3fs.Stat(ctx, "/a/x.txt")
	require.NoError(t, err)
	assert.False(t, fi.IsDir())
	assert.Equal(t, int64(5), fi.Size())
	assert.Equal(t, "x.txt", fi.Name())

	fi, err = s3fs.Stat(ctx, "/a")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	fi, err = s3fs.Stat(ctx, "/a/empty")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	fi, err = s3fs.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	_, err = s3fs.Stat(ctx, "/a/missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, s3fs.IsNotExist(err))
}

func TestS3FileSystemIsNotExist(t *testing.T) {
	s3fs := &S3FileSystem{}
	assert.True(t, s3fs.IsNotExist(os.ErrNotExist))
	assert.True(t, s3fs.IsNotExist(&os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}))
	assert.False(t, s3fs.IsNotExist(errors.New("boom")))
	assert.False(t, s3fs.IsNotExist(nil))
}

func TestS3FileSystemMkdirAll(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	s3fs := NewS3FileSystem(client, "bucket", "prefix", 0, false, 0)

	require.NoError(t, s3fs.MkdirAll(ctx, "/a/b", 0755))
	assert.Contains(t, client.objects, "prefix/a/b/")

	fi, err := s3fs.Stat(ctx, "/a/b")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	// the root of the file system is never written
	require.NoError(t, NewS3FileSystem(client, "bucket", "", 0, false, 0).MkdirAll(ctx, "/", 0755))
	assert.NotContains(t, client.objects, "/")
}

func TestS3FileSystemOpen(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["a/x.txt"] = []byte("hello world")

	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	f, err := s3fs.Open(ctx, "/a/x.txt")
	require.NoError(t, err)

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))

	_, err = f.Seek(6, io.SeekStart)
	require.NoError(t, err)
	b, err = io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "world", string(b))

	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	require.NoError(t, f.Close())

	_, err = s3fs.Open(ctx, "/a/missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestS3FileWriteToParallel(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.objects["x.txt"] = []byte("abcdefghijklmnopqrstuvwxyz")

	// three byte parts
	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 3)
	local := lfs.NewLocalFileSystem(t.TempDir())

	source, err := s3fs.Open(ctx, "/x.txt")
	require.NoError(t, err)
	destination, err := local.OpenFile(ctx, "/x.txt", os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	require.NoError(t, err)

	n, err := source.WriteTo(ctx, destination)
	require.NoError(t, err)
	assert.Equal(t, int64(26), n)
	assert.Equal(t, 9, client.getCount)

	require.NoError(t, source.Close())
	require.NoError(t, destination.Close())

	b, err := fs.ReadFile(ctx, local, "/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", string(b))
}

func TestUploaderPutObject(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	s3fs := NewS3FileSystem(client, "bucket", "", 0, false, 0)

	writeObject(t, s3fs, "/a/x.txt", "hello")
	assert.Equal(t, []byte("hello"), client.objects["a/x.txt"])
	assert.Equal(t, 0, client.uploadCount)

	// empty files are uploaded too
	writeObject(t, s3fs, "/a/empty.txt", "")
	assert.Contains(t, client.objects, "a/empty.txt")

	b, err := fs.ReadFile(ctx, s3fs, "/a/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestUploaderMultipart(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()

	uploader := NewUploader(ctx, &UploaderInput{
		Client:   client,
		Bucket:   "bucket",
		Key:      "x.txt",
		PartSize: 4,
	})
	for _, s := range []string{"abc", "def", "ghi", "j"} {
		_, err := uploader.Write([]byte(s))
		require.NoError(t, err)
	}
	require.NoError(t, uploader.Close())

	assert.Equal(t, "abcdefghij", string(client.objects["x.txt"]))
	assert.Equal(t, 1, client.uploadCount)
	assert.Equal(t, 2, client.partsUploads)
	assert.Empty(t, client.uploads)

	_, err := uploader.Write([]byte("k"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUploaderAbort(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	client.failPart = 2

	uploader := NewUploader(ctx, &UploaderInput{
		Client:   client,
		Bucket:   "bucket",
		Key:      "x.txt",
		PartSize: 2,
	})
	_, err := uploader.Write([]byte("ab"))
	require.NoError(t, err)
	_, err = uploader.Write([]byte("cd"))
	require.Error(t, err)

	assert.Equal(t, 1, client.aborted)
	assert.Empty(t, client.uploads)
	assert.NotContains(t, client.objects, "x.txt")
}

func TestCopyDirectoryThroughS3(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient()
	s3fs := NewS3FileSystem(client, "bucket", "backup", 0, false, 4)

	local := lfs.NewMemoryFileSystem()
	writeObject(t, local, "/a/x.txt", "hello")
	require.NoError(t, local.MkdirAll(ctx, "/a/b/c", 0755))
	writeObject(t, local, "/a/b/y.txt", "world, but longer than a part")

	// upload
	require.NoError(t, fs.CopyDirectory(ctx, &fs.CopyDirectoryInput{
		SourceDirectory:       "/a",
		SourceFileSystem:      local,
		DestinationDirectory:  "/a",
		DestinationFileSystem: s3fs,
	}))
	assert.Equal(t, "hello", string(client.objects["backup/a/x.txt"]))
	assert.Contains(t, client.objects, "backup/a/b/c/")

	count, err := fs.Verify(ctx, &fs.VerifyInput{
		SourceDirectory:       "/a",
		SourceFileSystem:      local,
		DestinationDirectory:  "/a",
		DestinationFileSystem: s3fs,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// download
	restored := lfs.NewLocalFileSystem(t.TempDir())
	require.NoError(t, fs.CopyDirectory(ctx, &fs.CopyDirectoryInput{
		SourceDirectory:       "/a",
		SourceFileSystem:      s3fs,
		DestinationDirectory:  "/restored",
		DestinationFileSystem: restored,
	}))

	b, err := fs.ReadFile(ctx, restored, "/restored/b/y.txt")
	require.NoError(t, err)
	assert.Equal(t, "world, but longer than a part", string(b))

	fi, err := restored.Stat(ctx, "/restored/b/c")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestCopyDirectoryFromS3SourceNotExist(t *testing.T) {
	ctx := context.Background()
	s3fs := NewS3FileSystem(newMemoryClient(), "bucket", "", 0, false, 0)
	local := lfs.NewMemoryFileSystem()

	err := fs.CopyDirectory(ctx, &fs.CopyDirectoryInput{
		SourceDirectory:       "/missing",
		SourceFileSystem:      s3fs,
		DestinationDirectory:  "/out",
		DestinationFileSystem: local,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	fi, err := local.Stat(ctx, "/out")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestS3FileSystemSymlinkUnsupported(t *testing.T) {
	ctx := context.Background()
	s3fs := NewS3FileSystem(newMemoryClient(), "bucket", "", 0, false, 0)

	_, err := s3fs.Readlink(ctx, "/a")
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	err = s3fs.Symlink(ctx, "x.txt", "/a")
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}
