package blob

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/utils"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("blob not found")

// Object is a stored asset.
type Object struct {
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Store is the read side of an asset source. Keys are slash-separated paths
// relative to the store root, without a leading slash.
type Store interface {
	Get(ctx context.Context, key string) (*Object, error)
}

// Putter is the write side, used when publishing a site's public tree.
type Putter interface {
	Put(ctx context.Context, data []byte, mime, key string) (url string, err error)
}

// See filesystem.go and s3.go for driver implementations.

// Config is a minimal struct for blob store configuration.
type Config struct {
	Driver    string
	Directory string
	Bucket    string
	Region    string
	Prefix    string
}

// NewDefaultStore returns a Store based on config, or a FilesystemStore over
// Directory if the driver is empty.
func NewDefaultStore(ctx context.Context, cfg *Config) (Store, error) {
	if cfg == nil || cfg.Driver == "" || cfg.Driver == constants.AssetsDriverFilesystem {
		dir := constants.DefaultPublicDir
		if cfg != nil && cfg.Directory != "" {
			dir = cfg.Directory
		}
		return NewFilesystemStore(dir), nil
	}
	if cfg.Driver == constants.AssetsDriverS3 {
		if cfg.Bucket == "" || cfg.Region == "" {
			return nil, utils.Errorf("s3 driver requires bucket and region")
		}
		return NewS3Store(ctx, cfg.Bucket, cfg.Region, cfg.Prefix)
	}
	return nil, utils.Errorf("unsupported blob driver: %s", cfg.Driver)
}

// CleanKey normalizes a request path into a store key. It returns false for
// keys that would escape the store root or name the root itself.
func CleanKey(p string) (string, bool) {
	if strings.Contains(p, "\\") || strings.Contains(p, "\x00") {
		return "", false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}

// ContentType picks a content type from the key's extension, falling back to
// sniffing the data.
func ContentType(key string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
