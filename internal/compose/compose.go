// Package compose merges the adapted MCP surface and the original backend
// surface into one servable unit. Dispatch is static prefix matching only;
// a request is routed by at most one surface.
package compose

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// RouteConflictError reports overlapping surface prefixes detected at
// composition time.
type RouteConflictError struct {
	Prefix string
	Path   string
}

func (e *RouteConflictError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("route conflict: backend path %q falls under adapter prefix %q", e.Path, e.Prefix)
	}
	return fmt.Sprintf("route conflict: adapter prefix %q overlaps the original surface", e.Prefix)
}

// Table is one immutable composition of the two surfaces. Build a new Table
// and swap it via Server.Reload; never mutate one that is serving.
type Table struct {
	mux    *chi.Mux
	prefix string
}

// Compose mounts adapted under prefix and original at the root. It fails
// fast when the prefix cannot disambiguate dispatch: a root prefix, or any
// original path already living under the adapter prefix.
func Compose(adapted http.Handler, prefix string, original http.Handler, originalPaths []string) (*Table, error) {
	if prefix == "" || prefix == "/" || !strings.HasPrefix(prefix, "/") {
		return nil, &RouteConflictError{Prefix: prefix}
	}
	prefix = strings.TrimRight(prefix, "/")

	for _, p := range originalPaths {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return nil, &RouteConflictError{Prefix: prefix, Path: p}
		}
	}

	mux := chi.NewRouter()
	mux.Mount(prefix, http.StripPrefix(prefix, adapted))
	mux.NotFound(original.ServeHTTP)
	mux.MethodNotAllowed(original.ServeHTTP)

	return &Table{mux: mux, prefix: prefix}, nil
}

// Prefix returns the adapter mount prefix.
func (t *Table) Prefix() string {
	return t.prefix
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.mux.ServeHTTP(w, r)
}

// Server serves whichever Table is current. Reload swaps the whole table
// atomically, so concurrent requests observe the old or the new composition
// in full, never a mix.
type Server struct {
	table atomic.Pointer[Table]
}

// NewServer creates a composite server with its initial table.
func NewServer(t *Table) *Server {
	s := &Server{}
	s.table.Store(t)
	return s
}

// Reload replaces the routing table.
func (s *Server) Reload(t *Table) {
	s.table.Store(t)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.table.Load().ServeHTTP(w, r)
}
