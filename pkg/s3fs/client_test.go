// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// memoryClient is an in-memory bucket.
type memoryClient struct {
	sync.Mutex
	objects      map[string][]byte
	uploads      map[string]map[int32][]byte
	uploadCount  int
	getCount     int
	partsUploads int
	aborted      int
	failPart     int32
}

func newMemoryClient() *memoryClient {
	return &memoryClient{
		objects: map[string][]byte{},
		uploads: map[string]map[int32][]byte{},
	}
}

var modTime = time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)

func (c *memoryClient) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	c.Lock()
	defer c.Unlock()
	delete(c.uploads, aws.ToString(params.UploadId))
	c.aborted += 1
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (c *memoryClient) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	c.Lock()
	defer c.Unlock()
	parts, ok := c.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, &types.NoSuchUpload{}
	}
	buf := bytes.NewBuffer([]byte{})
	for _, part := range params.MultipartUpload.Parts {
		buf.Write(parts[aws.ToInt32(part.PartNumber)])
	}
	c.objects[aws.ToString(params.Key)] = buf.Bytes()
	delete(c.uploads, aws.ToString(params.UploadId))
	return &s3.CompleteMultipartUploadOutput{}, nil
}

func (c *memoryClient) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	c.Lock()
	defer c.Unlock()
	c.uploadCount += 1
	uploadID := fmt.Sprintf("upload-%d", c.uploadCount)
	c.uploads[uploadID] = map[int32][]byte{}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String(uploadID)}, nil
}

func (c *memoryClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (c *memoryClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.Lock()
	defer c.Unlock()
	c.getCount += 1
	data, ok := c.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	if r := aws.ToString(params.Range); len(r) > 0 {
		start, end := int64(0), int64(len(data)-1)
		if _, err := fmt.Sscanf(r, "bytes=%d-%d", &start, &end); err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", r, err)
		}
		if end >= int64(len(data)) {
			end = int64(len(data)) - 1
		}
		data = data[start : end+1]
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  aws.Time(modTime),
	}, nil
}

func (c *memoryClient) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	c.Lock()
	defer c.Unlock()
	data, ok := c.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  aws.Time(modTime),
	}, nil
}

// ListObjectsV2 returns every match in a single page.
func (c *memoryClient) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.Lock()
	defer c.Unlock()
	prefix := aws.ToString(params.Prefix)
	delimiter := aws.ToString(params.Delimiter)
	keys := make([]string, 0, len(c.objects))
	for key := range c.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	output := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	commonPrefixes := map[string]struct{}{}
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if len(delimiter) > 0 {
			if i := strings.Index(rest, delimiter); i >= 0 {
				commonPrefix := prefix + rest[:i+len(delimiter)]
				if _, ok := commonPrefixes[commonPrefix]; !ok {
					commonPrefixes[commonPrefix] = struct{}{}
					output.CommonPrefixes = append(output.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(commonPrefix)})
				}
				continue
			}
		}
		output.Contents = append(output.Contents, types.Object{
			Key:          aws.String(key),
			LastModified: aws.Time(modTime),
			Size:         aws.Int64(int64(len(c.objects[key]))),
		})
	}
	return output, nil
}

func (c *memoryClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.Lock()
	defer c.Unlock()
	c.objects[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (c *memoryClient) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.Lock()
	defer c.Unlock()
	partNumber := aws.ToInt32(params.PartNumber)
	if partNumber == c.failPart {
		return nil, fmt.Errorf("part %d failed", partNumber)
	}
	parts, ok := c.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, &types.NoSuchUpload{}
	}
	parts[partNumber] = body
	c.partsUploads += 1
	return &s3.UploadPartOutput{ETag: aws.String(fmt.Sprintf("etag-%d", partNumber))}, nil
}

var _ Client = (*memoryClient)(nil)
