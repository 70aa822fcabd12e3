package fsxs3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/resumatch/resumatch/pkg/fsx"
)

// S3FileSystem implements fsx.FileSystem on top of an S3 bucket with a
// fixed key prefix.
type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3FileSystem creates a filesystem rooted at bucket/prefix.
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (f *S3FileSystem) key(path string) string {
	path = strings.TrimPrefix(path, "/")
	if f.prefix == "" {
		return path
	}
	return f.prefix + "/" + path
}

func (f *S3FileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	rc, err := f.ReadFileStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read s3 object %s: %w", path, err)
	}
	return data, nil
}

func (f *S3FileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", path, err)
	}
	return out.Body, nil
}

func (f *S3FileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	return f.WriteFileStream(ctx, path, bytes.NewReader(data))
}

func (f *S3FileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(path)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("put s3 object %s: %w", path, err)
	}
	return nil
}

func (f *S3FileSystem) DeleteFile(ctx context.Context, path string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(path)),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object %s: %w", path, err)
	}
	return nil
}

func (f *S3FileSystem) Join(parts ...string) string {
	return strings.Join(parts, "/")
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)
