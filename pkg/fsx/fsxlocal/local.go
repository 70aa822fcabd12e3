package fsxlocal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/resumatch/resumatch/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem on a local directory.
// Used for development and tests; production deployments use fsxs3.
type LocalFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) *LocalFileSystem {
	return &LocalFileSystem{root: root}
}

func (f *LocalFileSystem) abs(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

func (f *LocalFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(f.abs(path))
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return data, nil
}

func (f *LocalFileSystem) ReadFileStream(_ context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(f.abs(path))
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}

func (f *LocalFileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	abs := f.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

func (f *LocalFileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stream for %s: %w", path, err)
	}
	return f.WriteFile(ctx, path, data)
}

func (f *LocalFileSystem) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(f.abs(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

func (f *LocalFileSystem) Join(parts ...string) string {
	return strings.Join(parts, "/")
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)
