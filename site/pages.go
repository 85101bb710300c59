package site

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/awantoch/sitefn/constants"
)

// Route is one page in the page table.
type Route struct {
	// Pattern is the URL pattern, with dynamic segments written as [name].
	Pattern string
	// File is the template path relative to the pages directory.
	File     string
	segments []segment
}

type segment struct {
	value   string
	dynamic bool
}

// Dynamic reports whether the route has parameter segments.
func (r Route) Dynamic() bool {
	for _, s := range r.segments {
		if s.dynamic {
			return true
		}
	}
	return false
}

// pageTable resolves request paths to routes. Static routes are looked up
// directly; dynamic routes are tried in specificity order.
type pageTable struct {
	routes   []Route
	static   map[string]int
	notFound string
}

// scanPages walks fsys and builds the page table. Names starting with "_" or
// "." are skipped (layouts, partials, dotfiles).
func scanPages(fsys fs.FS, isCancelled func() error) (*pageTable, error) {
	t := &pageTable{static: make(map[string]int)}
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := isCancelled(); err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || path.Ext(name) != constants.PageExtension {
			return nil
		}
		if p == constants.NotFoundPage {
			t.notFound = p
			return nil
		}

		route, err := routeForFile(p)
		if err != nil {
			return err
		}
		key := route.key()
		if other, ok := seen[key]; ok {
			return fmt.Errorf("pages %s and %s both resolve to %s", other, p, route.Pattern)
		}
		seen[key] = p
		t.routes = append(t.routes, route)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(t.routes, func(i, j int) bool {
		return moreSpecific(t.routes[i], t.routes[j])
	})
	for i, r := range t.routes {
		if !r.Dynamic() {
			t.static[r.Pattern] = i
		}
	}
	return t, nil
}

func routeForFile(file string) (Route, error) {
	trimmed := strings.TrimSuffix(file, constants.PageExtension)
	parts := strings.Split(trimmed, "/")
	if parts[len(parts)-1] == "index" {
		parts = parts[:len(parts)-1]
	}

	r := Route{File: file}
	params := make(map[string]bool)
	for _, part := range parts {
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			name := part[1 : len(part)-1]
			if name == "" || strings.ContainsAny(name, "[]") {
				return Route{}, fmt.Errorf("page %s: invalid dynamic segment %q", file, part)
			}
			if params[name] {
				return Route{}, fmt.Errorf("page %s: duplicate parameter %q", file, name)
			}
			params[name] = true
			r.segments = append(r.segments, segment{value: name, dynamic: true})
			continue
		}
		if strings.ContainsAny(part, "[]") {
			return Route{}, fmt.Errorf("page %s: invalid segment %q", file, part)
		}
		r.segments = append(r.segments, segment{value: part})
	}
	r.Pattern = "/" + strings.Join(parts, "/")
	return r, nil
}

// key identifies routes that would match the same paths, regardless of
// parameter names.
func (r Route) key() string {
	var b strings.Builder
	for _, s := range r.segments {
		b.WriteByte('/')
		if s.dynamic {
			b.WriteString("[]")
		} else {
			b.WriteString(s.value)
		}
	}
	return b.String()
}

// moreSpecific orders static segments before dynamic ones at the first
// position where two routes differ, then falls back to the pattern.
func moreSpecific(a, b Route) bool {
	for i := 0; i < len(a.segments) && i < len(b.segments); i++ {
		if a.segments[i].dynamic != b.segments[i].dynamic {
			return !a.segments[i].dynamic
		}
	}
	if len(a.segments) != len(b.segments) {
		return len(a.segments) < len(b.segments)
	}
	return a.Pattern < b.Pattern
}

func (r Route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(r.segments) {
		return nil, false
	}
	params := make(map[string]string)
	for i, s := range r.segments {
		if s.dynamic {
			if parts[i] == "" {
				return nil, false
			}
			params[s.value] = parts[i]
			continue
		}
		if parts[i] != s.value {
			return nil, false
		}
	}
	return params, true
}

// lookup resolves a clean request path ("/", "/blog/hello") to a route.
func (t *pageTable) lookup(p string) (Route, map[string]string, bool) {
	if i, ok := t.static[p]; ok {
		return t.routes[i], map[string]string{}, true
	}
	parts := splitPath(p)
	for _, r := range t.routes {
		if !r.Dynamic() {
			continue
		}
		if params, ok := r.match(parts); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
