package fsx

import (
	"context"
	"io"
)

// FileReader is the read-only subset of FileSystem, for components that
// only consume stored files.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSystem abstracts blob storage (S3, local disk) for uploaded
// documents. Paths are forward-slash separated keys produced by Join.
type FileSystem interface {
	FileReader

	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
	Join(parts ...string) string
}
