package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// File reads a resource from the local filesystem.
type File struct {
	path string
}

// NewFile returns a File source for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Fetch opens the file.
func (f *File) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	return fh, nil
}

// Location returns the file path.
func (f *File) Location() string {
	return f.path
}
