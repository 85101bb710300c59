// Package site is a small file-based page framework. Pages are pongo2
// templates under a pages directory; public assets come from a blob.Store.
// An App must be prepared once before it serves requests.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/awantoch/sitefn/blob"
	"github.com/awantoch/sitefn/utils"
	pongo2 "github.com/flosch/pongo2/v6"
)

var (
	// ErrNotPrepared is returned when the App serves before Prepare succeeded.
	ErrNotPrepared = errors.New("site: app not prepared")
	// ErrPageNotFound is returned by Lookup when no page matches.
	ErrPageNotFound = errors.New("site: page not found")
)

// Options configure an App.
type Options struct {
	// Dev re-reads templates on every render.
	Dev bool
	// Conf is the site configuration; nil means DefaultConfig.
	Conf *Config
	// Pages holds the page templates.
	Pages fs.FS
	// Assets serves public files; nil disables asset serving.
	Assets blob.Store
}

// App is the prepared site: a page table plus compiled templates.
type App struct {
	dev    bool
	conf   *Config
	pages  fs.FS
	assets blob.Store

	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	table *pageTable
}

// New constructs an App. It does not touch the filesystem; Prepare does.
func New(opts Options) (*App, error) {
	if opts.Pages == nil {
		return nil, fmt.Errorf("site: pages filesystem is required")
	}
	conf := opts.Conf
	if conf == nil {
		conf = DefaultConfig()
	}
	return &App{
		dev:    opts.Dev,
		conf:   conf,
		pages:  opts.Pages,
		assets: opts.Assets,
	}, nil
}

// Dev reports whether the App runs in development mode.
func (a *App) Dev() bool { return a.dev }

// Config returns the site configuration.
func (a *App) Config() *Config { return a.conf }

// Prepare scans the pages directory and compiles every page. It is safe to
// call repeatedly; once it succeeds later calls return immediately.
func (a *App) Prepare(ctx context.Context) error {
	a.mu.RLock()
	ready := a.table != nil
	a.mu.RUnlock()
	if ready {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.table != nil {
		return nil
	}

	table, err := scanPages(a.pages, ctx.Err)
	if err != nil {
		return fmt.Errorf("scan pages: %w", err)
	}

	set := pongo2.NewSet("site", pongo2.NewFSLoader(a.pages))
	set.Debug = a.dev

	files := make([]string, 0, len(table.routes)+1)
	for _, r := range table.routes {
		files = append(files, r.File)
	}
	if table.notFound != "" {
		files = append(files, table.notFound)
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := set.FromCache(f); err != nil {
			return fmt.Errorf("compile %s: %w", f, err)
		}
	}

	a.set = set
	a.table = table
	utils.InfoCtx(ctx, "site prepared", "pages", len(table.routes), "dev", a.dev)
	return nil
}

// Prepared reports whether Prepare has succeeded.
func (a *App) Prepared() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table != nil
}

// Routes lists the page table in resolution order.
func (a *App) Routes() []Route {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.table == nil {
		return nil
	}
	out := make([]Route, len(a.table.routes))
	copy(out, a.table.routes)
	return out
}

// Lookup resolves a path to a page route and its parameters.
func (a *App) Lookup(p string) (Route, map[string]string, error) {
	table, _, err := a.prepared()
	if err != nil {
		return Route{}, nil, err
	}
	r, params, ok := table.lookup(p)
	if !ok {
		return Route{}, nil, ErrPageNotFound
	}
	return r, params, nil
}

func (a *App) prepared() (*pageTable, *pongo2.TemplateSet, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.table == nil {
		return nil, nil, ErrNotPrepared
	}
	return a.table, a.set, nil
}

// Handler adapts Handle to http.Handler. Errors become a 500 response.
func (a *App) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.Handle(w, r); err != nil {
			utils.ErrorCtx(r.Context(), "site handler failed", "path", r.URL.Path, "error", err)
			utils.WriteHTTPError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}
