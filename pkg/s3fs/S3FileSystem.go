// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package s3fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/navwar/gocopy/pkg/fs"
)

// S3FileSystem is a file system backed by a single S3 bucket.
// Names are slash-separated paths below the prefix, and directories are common prefixes.
// Empty directories are stored as zero-length objects with a trailing slash.
type S3FileSystem struct {
	client           Client
	bucket           string
	prefix           string
	maxEntries       int
	bucketKeyEnabled bool
	partSize         int64
}

// key returns the object key for the name.
func (s3fs *S3FileSystem) key(name string) string {
	return strings.TrimPrefix(path.Join("/", s3fs.prefix, name), "/")
}

func (s3fs *S3FileSystem) uri(key string) string {
	return fmt.Sprintf("s3://%s/%s", s3fs.bucket, key)
}

// Chmod does nothing, since objects have no permission bits.
func (s3fs *S3FileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return nil
}

func (s3fs *S3FileSystem) Dir(name string) string {
	return Dir(name)
}

func (s3fs *S3FileSystem) IsNotExist(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		switch apiError.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var responseError *awshttp.ResponseError
	if errors.As(err, &responseError) {
		return responseError.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}

// pathError wraps the error, replacing a missing object with os.ErrNotExist.
func (s3fs *S3FileSystem) pathError(op string, name string, err error) error {
	if s3fs.IsNotExist(err) {
		return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
	}
	return &os.PathError{Op: op, Path: name, Err: err}
}

func (s3fs *S3FileSystem) Join(name ...string) string {
	return path.Join(name...)
}

// Lstat is the same as Stat, since S3 has no links.
func (s3fs *S3FileSystem) Lstat(ctx context.Context, name string) (fs.FileInfo, error) {
	return s3fs.Stat(ctx, name)
}

// MkdirAll writes a directory marker, so that empty directories are kept.
func (s3fs *S3FileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	key := s3fs.key(name)
	if len(key) == 0 {
		return nil
	}
	_, err := s3fs.client.PutObject(ctx, &s3.PutObjectInput{
		ACL:              types.ObjectCannedACLBucketOwnerFullControl,
		Body:             strings.NewReader(""),
		Bucket:           aws.String(s3fs.bucket),
		BucketKeyEnabled: aws.Bool(s3fs.bucketKeyEnabled),
		ContentLength:    aws.Int64(0),
		Key:              aws.String(key + "/"),
	})
	if err != nil {
		return s3fs.pathError("mkdir", name, err)
	}
	return nil
}

func (s3fs *S3FileSystem) HeadObject(ctx context.Context, name string) (*S3FileInfo, error) {
	key := s3fs.key(name)
	headObjectOutput, err := s3fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s3fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s3fs.pathError("stat", name, err)
	}
	return NewS3FileInfo(
		path.Base(key),
		aws.ToTime(headObjectOutput.LastModified),
		false,
		aws.ToInt64(headObjectOutput.ContentLength),
	), nil
}

func (s3fs *S3FileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	fi, err := s3fs.HeadObject(ctx, name)
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	bucket := aws.String(s3fs.bucket)
	key := aws.String(s3fs.key(name))
	uri := s3fs.uri(aws.ToString(key))
	client := s3fs.client

	readSeeker := NewReadSeeker(
		0,
		size,
		func(offset int64, p []byte) (int, error) {
			getObjectOutput, err := client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: bucket,
				Key:    key,
				Range:  aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+int64(len(p))-1)),
			})
			if err != nil {
				return 0, fmt.Errorf("error reading object %q at offset %d: %w", uri, offset, err)
			}
			defer getObjectOutput.Body.Close()
			return io.ReadFull(getObjectOutput.Body, p)
		},
	)

	partSize := s3fs.partSize
	downloader := Downloader(func(ctx context.Context, w io.WriterAt) (int64, error) {
		wg, ctx := errgroup.WithContext(ctx)
		wg.SetLimit(runtime.NumCPU())
		parts := []struct {
			start int64
			end   int64
		}{}
		for offset := int64(0); offset < size; offset += partSize {
			start := offset
			end := start + partSize - 1
			if end >= size {
				end = size - 1
			}
			parts = append(parts, struct {
				start int64
				end   int64
			}{start: start, end: end})
		}
		writtenByPart := make([]int64, len(parts))
		for i, part := range parts {
			i := i
			start := part.start
			end := part.end
			wg.Go(func() error {
				getObjectOutput, err := client.GetObject(ctx, &s3.GetObjectInput{
					Bucket: bucket,
					Key:    key,
					Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
				})
				if err != nil {
					return fmt.Errorf("error reading object %q at range %d-%d: %w", uri, start, end, err)
				}
				body, err := io.ReadAll(getObjectOutput.Body)
				_ = getObjectOutput.Body.Close()
				if err != nil {
					return fmt.Errorf("error reading body for object %q at range %d-%d: %w", uri, start, end, err)
				}
				if int64(len(body)) != end-start+1 {
					return fmt.Errorf("error reading object %q at range %d-%d: received %d bytes", uri, start, end, len(body))
				}
				n, err := w.WriteAt(body, start)
				if err != nil {
					return fmt.Errorf("error writing object %q at range %d-%d: %w", uri, start, end, err)
				}
				writtenByPart[i] = int64(n)
				return nil
			})
		}

		err := wg.Wait()

		sum := int64(0)
		for _, n := range writtenByPart {
			sum += n
		}

		return sum, err
	})

	return NewS3File(name, readSeeker, downloader, nil), nil
}

// OpenFile opens the object for writing if the flag includes os.O_WRONLY or os.O_RDWR,
// and for reading otherwise.  Objects opened for writing are replaced when closed.
func (s3fs *S3FileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return s3fs.Open(ctx, name)
	}
	uploader := NewUploader(ctx, &UploaderInput{
		ACL:              types.ObjectCannedACLBucketOwnerFullControl,
		Client:           s3fs.client,
		Bucket:           s3fs.bucket,
		BucketKeyEnabled: s3fs.bucketKeyEnabled,
		Key:              s3fs.key(name),
		PartSize:         int(s3fs.partSize),
	})
	return NewS3File(name, nil, nil, uploader), nil
}

// ReadDir lists the objects and common prefixes directly below the directory.
// The directory marker itself is not returned.
func (s3fs *S3FileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	prefix := s3fs.key(name)
	if len(prefix) > 0 {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s3fs.bucket),
		Delimiter: aws.String("/"),
		Prefix:    aws.String(prefix),
	}
	if s3fs.maxEntries > 0 {
		input.MaxKeys = aws.Int32(int32(s3fs.maxEntries))
	}

	directoryEntries := []fs.DirectoryEntry{}
	found := false

	paginator := s3.NewListObjectsV2Paginator(s3fs.client, input)
	for paginator.HasMorePages() {
		listObjectsOutput, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s3fs.pathError("readdir", name, err)
		}
		for _, commonPrefix := range listObjectsOutput.CommonPrefixes {
			found = true
			directoryName := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(commonPrefix.Prefix), prefix), "/")
			if len(directoryName) == 0 {
				continue
			}
			directoryEntries = append(directoryEntries, &S3DirectoryEntry{
				name: directoryName,
				dir:  true,
			})
		}
		for _, object := range listObjectsOutput.Contents {
			found = true
			fileName := strings.TrimPrefix(aws.ToString(object.Key), prefix)
			// the directory marker for the directory being listed
			if len(fileName) == 0 {
				continue
			}
			directoryEntries = append(directoryEntries, &S3DirectoryEntry{
				name:    fileName,
				dir:     false,
				modTime: aws.ToTime(object.LastModified),
				size:    aws.ToInt64(object.Size),
			})
		}
	}

	if !found && len(prefix) > 0 {
		return nil, &os.PathError{Op: "readdir", Path: name, Err: os.ErrNotExist}
	}

	return directoryEntries, nil
}

func (s3fs *S3FileSystem) Readlink(ctx context.Context, name string) (string, error) {
	return "", &os.PathError{Op: "readlink", Path: name, Err: errors.ErrUnsupported}
}

func (s3fs *S3FileSystem) Relative(ctx context.Context, basepath string, targpath string) (string, error) {
	relpath, err := filepath.Rel(basepath, targpath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relpath), nil
}

func (s3fs *S3FileSystem) Remove(ctx context.Context, name string) error {
	_, err := s3fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s3fs.bucket),
		Key:    aws.String(s3fs.key(name)),
	})
	if err != nil {
		return s3fs.pathError("remove", name, err)
	}
	return nil
}

func (s3fs *S3FileSystem) Root() string {
	if len(s3fs.prefix) == 0 {
		return "s3://" + s3fs.bucket
	}
	return fmt.Sprintf("s3://%s/%s", s3fs.bucket, strings.Trim(s3fs.prefix, "/"))
}

// SameFile always returns false, since an object cannot be reached by two names.
func (s3fs *S3FileSystem) SameFile(a fs.FileInfo, b fs.FileInfo) bool {
	return false
}

// Stat returns the object with the given name, or a directory if any object has the name as a prefix.
func (s3fs *S3FileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	key := s3fs.key(name)
	if len(key) == 0 {
		return NewS3FileInfo("/", time.Time{}, true, int64(0)), nil
	}

	fi, err := s3fs.HeadObject(ctx, name)
	if err == nil {
		return fi, nil
	}
	if !s3fs.IsNotExist(err) {
		return nil, err
	}

	listObjectsOutput, err := s3fs.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s3fs.bucket),
		MaxKeys: aws.Int32(1),
		Prefix:  aws.String(key + "/"),
	})
	if err != nil {
		return nil, s3fs.pathError("stat", name, err)
	}
	if len(listObjectsOutput.Contents) == 0 && len(listObjectsOutput.CommonPrefixes) == 0 {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}

	return NewS3FileInfo(path.Base(key), time.Time{}, true, int64(0)), nil
}

func (s3fs *S3FileSystem) Symlink(ctx context.Context, oldname string, newname string) error {
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: errors.ErrUnsupported}
}

func NewS3FileSystem(
	client Client,
	bucket string,
	prefix string,
	maxEntries int,
	bucketKeyEnabled bool,
	partSize int) *S3FileSystem {
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	return &S3FileSystem{
		client:           client,
		bucket:           bucket,
		prefix:           strings.Trim(prefix, "/"),
		maxEntries:       maxEntries,
		bucketKeyEnabled: bucketKeyEnabled,
		partSize:         int64(partSize),
	}
}
