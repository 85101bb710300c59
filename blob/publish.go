package blob

import (
	"context"
	"io/fs"

	"github.com/awantoch/sitefn/utils"
)

// Publish copies every regular file in src to dst, keeping relative paths as
// keys. It returns the number of files written.
func Publish(ctx context.Context, src fs.FS, dst Putter) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		url, err := dst.Put(ctx, data, ContentType(p, data), p)
		if err != nil {
			return utils.Errorf("publish %s: %w", p, err)
		}
		utils.Debug("published %s -> %s", p, url)
		n++
		return nil
	})
	return n, err
}
