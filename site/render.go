package site

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/awantoch/sitefn/blob"
	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/utils"
	pongo2 "github.com/flosch/pongo2/v6"
)

// Render renders the page registered for the given path with status 200.
// Unknown paths get the not-found response.
func (a *App) Render(w http.ResponseWriter, r *http.Request, page string) error {
	table, set, err := a.prepared()
	if err != nil {
		return err
	}
	a.applyHeaders(w, page)
	route, params, ok := table.lookup(page)
	if !ok {
		return a.notFound(w, r, table, set)
	}
	return a.renderFile(w, r, set, route.File, route.Pattern, params, http.StatusOK)
}

// Handle is the generic request handler. It applies base path, redirects,
// headers, public assets, trailing slash policy and page routing in that
// order, and answers 404 when nothing matches.
func (a *App) Handle(w http.ResponseWriter, r *http.Request) error {
	table, set, err := a.prepared()
	if err != nil {
		return err
	}

	p, ok := a.stripBasePath(r.URL.Path)
	if !ok {
		return a.notFound(w, r, table, set)
	}

	a.applyHeaders(w, p)

	if rd, ok := a.conf.redirectFor(p); ok {
		code := http.StatusTemporaryRedirect
		if rd.Permanent {
			code = http.StatusPermanentRedirect
		}
		dest := rd.Destination
		if strings.HasPrefix(dest, "/") {
			dest = a.conf.BasePath + dest
		}
		http.Redirect(w, r, dest, code)
		return nil
	}

	if served, err := a.serveAsset(w, r, p); served || err != nil {
		return err
	}

	if target, redirect := a.normalizeSlash(p); redirect {
		u := *r.URL
		u.Path = a.conf.BasePath + target
		u.RawPath = ""
		http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		return nil
	}

	clean := path.Clean(p)
	if route, params, ok := table.lookup(clean); ok {
		return a.renderFile(w, r, set, route.File, route.Pattern, params, http.StatusOK)
	}
	return a.notFound(w, r, table, set)
}

func (a *App) applyHeaders(w http.ResponseWriter, p string) {
	for k, v := range a.conf.headersFor(p) {
		w.Header().Set(k, v)
	}
}

func (a *App) stripBasePath(p string) (string, bool) {
	base := a.conf.BasePath
	if base == "" {
		return p, true
	}
	if p == base {
		return "/", true
	}
	if strings.HasPrefix(p, base+"/") {
		return strings.TrimPrefix(p, base), true
	}
	return "", false
}

// normalizeSlash returns the canonical form of p when it differs from p.
func (a *App) normalizeSlash(p string) (string, bool) {
	if p == "/" {
		return "", false
	}
	hasSlash := strings.HasSuffix(p, "/")
	if a.conf.TrailingSlash && !hasSlash {
		if path.Ext(p) != "" {
			return "", false
		}
		return p + "/", true
	}
	if !a.conf.TrailingSlash && hasSlash {
		if t := strings.TrimRight(p, "/"); t != "" {
			return t, true
		}
		return "/", true
	}
	return "", false
}

func (a *App) serveAsset(w http.ResponseWriter, r *http.Request, p string) (bool, error) {
	if a.assets == nil || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		return false, nil
	}
	key, ok := blob.CleanKey(p)
	if !ok {
		return false, nil
	}
	obj, err := a.assets.Get(r.Context(), key)
	if errors.Is(err, blob.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	a.poweredBy(w)
	w.Header().Set(constants.HeaderContentType, obj.ContentType)
	http.ServeContent(w, r, path.Base(key), obj.ModTime, bytes.NewReader(obj.Data))
	return true, nil
}

func (a *App) notFound(w http.ResponseWriter, r *http.Request, table *pageTable, set *pongo2.TemplateSet) error {
	if table.notFound != "" {
		return a.renderFile(w, r, set, table.notFound, "", nil, http.StatusNotFound)
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
	a.poweredBy(w)
	w.WriteHeader(http.StatusNotFound)
	_, err := io.WriteString(w, constants.NotFoundResponse)
	return err
}

func (a *App) renderFile(w http.ResponseWriter, r *http.Request, set *pongo2.TemplateSet, file, pattern string, params map[string]string, status int) error {
	tpl, err := set.FromCache(file)
	if err != nil {
		return err
	}
	if params == nil {
		params = map[string]string{}
	}
	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	globals := a.conf.Globals
	if globals == nil {
		globals = map[string]any{}
	}

	body, err := tpl.ExecuteBytes(pongo2.Context{
		"page":   pattern,
		"params": params,
		"query":  query,
		"request": map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"host":   r.Host,
		},
		"site": globals,
		"dev":  a.dev,
	})
	if err != nil {
		return err
	}
	utils.DebugCtx(r.Context(), "rendered page", "file", file, "status", status)
	a.poweredBy(w)
	return utils.WriteHTML(w, status, body)
}

func (a *App) poweredBy(w http.ResponseWriter) {
	if a.conf.PoweredByHeader {
		w.Header().Set(constants.HeaderPoweredBy, constants.PoweredByValue)
	}
}
