// Package http is the function's request dispatcher and its serverless entry
// points.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/utils"
)

// Application is the web application the dispatcher drives.
type Application interface {
	// Prepare builds the application. It must finish before Render or Handle.
	Prepare(ctx context.Context) error
	// Render renders the page registered for a path.
	Render(w http.ResponseWriter, r *http.Request, page string) error
	// Handle resolves any request, answering 404 when nothing matches.
	Handle(w http.ResponseWriter, r *http.Request) error
}

type route struct {
	name  string
	match func(*http.Request) bool
	serve func(http.ResponseWriter, *http.Request) error
}

// Dispatcher turns one inbound request into one response. Its route table is
// fixed at construction.
type Dispatcher struct {
	app    Application
	ready  readiness
	routes []route
}

// NewDispatcher registers the routes for app in priority order.
func NewDispatcher(app Application) *Dispatcher {
	d := &Dispatcher{app: app}
	d.routes = []route{
		{
			name:  constants.RouteRoot,
			match: func(r *http.Request) bool { return r.URL.Path == constants.RouteRoot },
			serve: func(w http.ResponseWriter, r *http.Request) error {
				return d.app.Render(w, r, constants.RouteRoot)
			},
		},
		{
			name:  constants.RouteExpress,
			match: func(r *http.Request) bool { return r.URL.Path == constants.RouteExpress },
			serve: serveExpress,
		},
		{
			name:  constants.RouteCatchAll,
			match: func(*http.Request) bool { return true },
			serve: func(w http.ResponseWriter, r *http.Request) error {
				return d.app.Handle(w, r)
			},
		},
	}
	return d
}

func serveExpress(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteHTML(w, http.StatusOK, []byte(constants.ExpressResponse))
}

// Dispatch waits for the application to be prepared, then serves r through
// the first matching route.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) error {
	if err := d.ready.ensure(r.Context(), d.app.Prepare); err != nil {
		return fmt.Errorf("prepare app: %w", err)
	}
	for _, rt := range d.routes {
		if rt.match(r) {
			utils.DebugCtx(r.Context(), "dispatch", "route", rt.name, "method", r.Method, "path", r.URL.Path)
			return rt.serve(w, r)
		}
	}
	return nil
}

// ServeHTTP implements http.Handler. A dispatch error becomes a 500 unless a
// response was already started.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tw := &trackingWriter{ResponseWriter: w}
	if err := d.Dispatch(tw, r); err != nil {
		if tw.wrote {
			utils.WarnCtx(r.Context(), "dispatch failed after response started", "path", r.URL.Path, "error", err)
			return
		}
		utils.ErrorCtx(r.Context(), "dispatch failed", "path", r.URL.Path, "state", d.State().String(), "error", err)
		utils.WriteHTTPError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// State reports the readiness state.
func (d *Dispatcher) State() State {
	return d.ready.State()
}

// Routes lists route names in priority order.
func (d *Dispatcher) Routes() []string {
	names := make([]string, len(d.routes))
	for i, rt := range d.routes {
		names[i] = rt.name
	}
	return names
}

type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(p)
}

func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
