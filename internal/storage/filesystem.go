package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// filesystemStore keeps one file per blob name inside a base directory.
// There is no index or manifest; the path's existence is the only
// persisted fact.
type filesystemStore struct {
	dir string
}

// NewFilesystem creates a filesystem-backed blob store rooted at dir,
// creating the directory if needed.
func NewFilesystem(dir string) (BlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &filesystemStore{dir: dir}, nil
}

func (s *filesystemStore) Put(_ context.Context, name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *filesystemStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
