// Package core builds the process-wide runtime the dispatcher serves from.
package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"github.com/awantoch/sitefn/blob"
	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/platform"
	"github.com/awantoch/sitefn/site"
	"github.com/awantoch/sitefn/utils"
)

// Runtime is the explicitly constructed process context: configuration, the
// platform SDK handle and the one application instance.
type Runtime struct {
	Config   *config.Config
	Platform *firebase.App
	App      *site.App
}

// Option customizes Bootstrap.
type Option func(*options)

type options struct {
	platformInit platform.Initializer
	siteFS       fs.FS
	assets       blob.Store
}

// WithPlatformInit replaces the Firebase initializer.
func WithPlatformInit(init platform.Initializer) Option {
	return func(o *options) { o.platformInit = init }
}

// WithoutPlatform skips platform SDK initialization, for offline commands
// that never serve requests.
func WithoutPlatform() Option {
	return WithPlatformInit(func(context.Context, config.PlatformConfig) (*firebase.App, error) {
		return nil, nil
	})
}

// WithSiteFS reads site.config.yaml, pages and (for the filesystem driver)
// public assets from fsys instead of the configured site directory.
func WithSiteFS(fsys fs.FS) Option {
	return func(o *options) { o.siteFS = fsys }
}

// WithAssets overrides the asset store.
func WithAssets(store blob.Store) Option {
	return func(o *options) { o.assets = store }
}

// Bootstrap initializes the platform SDK, loads the site configuration and
// constructs the application. The application is not prepared.
func Bootstrap(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	w := utils.NewErrorWrapper("bootstrap")
	if cfg == nil {
		return nil, w.Failf("config is required")
	}
	o := options{platformInit: platform.Init}
	for _, opt := range opts {
		opt(&o)
	}

	app, err := o.platformInit(ctx, cfg.Platform)
	if err != nil {
		return nil, w.Wrapf(err, "platform sdk")
	}

	siteFS := o.siteFS
	if siteFS == nil {
		siteFS = os.DirFS(cfg.Site.Dir)
	}
	siteConf, err := site.LoadConfig(siteFS)
	if err != nil {
		return nil, w.Wrapf(err, "site config")
	}
	pages, err := fs.Sub(siteFS, siteConf.PagesDir)
	if err != nil {
		return nil, w.Wrapf(err, "pages dir %q", siteConf.PagesDir)
	}

	assets := o.assets
	if assets == nil {
		assets, err = assetStore(ctx, cfg, siteConf, o.siteFS)
		if err != nil {
			return nil, w.Wrapf(err, "asset store")
		}
	}

	siteApp, err := site.New(site.Options{
		Dev:    cfg.IsDev(),
		Conf:   siteConf,
		Pages:  pages,
		Assets: assets,
	})
	if err != nil {
		return nil, w.Wrapf(err, "site app")
	}

	utils.Info("runtime ready: site=%s assets=%s dev=%v", cfg.Site.Dir, cfg.Assets.Driver, cfg.IsDev())
	return &Runtime{Config: cfg, Platform: app, App: siteApp}, nil
}

func assetStore(ctx context.Context, cfg *config.Config, siteConf *site.Config, siteFS fs.FS) (blob.Store, error) {
	if siteFS != nil && (cfg.Assets.Driver == "" || cfg.Assets.Driver == constants.AssetsDriverFilesystem) {
		public, err := fs.Sub(siteFS, siteConf.PublicDir)
		if err != nil {
			return nil, err
		}
		return blob.NewFSStore(public), nil
	}
	return blob.NewDefaultStore(ctx, &blob.Config{
		Driver:    cfg.Assets.Driver,
		Directory: filepath.Join(cfg.Site.Dir, siteConf.PublicDir),
		Bucket:    cfg.Assets.Bucket,
		Region:    cfg.Assets.Region,
		Prefix:    cfg.Assets.Prefix,
	})
}
