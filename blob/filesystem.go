package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/awantoch/sitefn/utils"
)

// FilesystemStore implements Store over a directory (or any fs.FS).
// This is the default asset source.
type FilesystemStore struct {
	dir  string
	fsys fs.FS
}

// NewFilesystemStore creates a FilesystemStore rooted at dir. The directory
// does not need to exist; a missing root simply has no objects.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{dir: dir, fsys: os.DirFS(dir)}
}

// NewFSStore creates a read-only FilesystemStore over fsys.
func NewFSStore(fsys fs.FS) *FilesystemStore {
	return &FilesystemStore{fsys: fsys}
}

// Get reads the file stored under key.
func (f *FilesystemStore) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(key) || key == "." {
		return nil, ErrNotFound
	}
	info, err := fs.Stat(f.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}
	data, err := fs.ReadFile(f.fsys, key)
	if err != nil {
		return nil, err
	}
	return &Object{
		Data:        data,
		ContentType: ContentType(key, data),
		ModTime:     info.ModTime(),
	}, nil
}

// Put stores data as a file under key and returns a file:// URL.
func (f *FilesystemStore) Put(ctx context.Context, data []byte, mime, key string) (string, error) {
	if f.dir == "" {
		return "", utils.Errorf("filesystem store is read-only")
	}
	if !fs.ValidPath(key) || key == "." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(f.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	// Write atomically
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}
	return "file://" + path, nil
}
