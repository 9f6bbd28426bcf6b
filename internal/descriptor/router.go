package descriptor

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RouterSource introspects a live chi router and produces one descriptor per
// registered route. Useful when the backend API runs in the same process as
// the adapter; chi's {param} path syntax carries over unchanged.
type RouterSource struct {
	routes chi.Routes
	tagger func(method, path string) []string
}

// NewRouterSource wraps a chi router. tagger may be nil; when set it assigns
// tags per route (e.g. marking /cache/* as admin).
func NewRouterSource(routes chi.Routes, tagger func(method, path string) []string) *RouterSource {
	return &RouterSource{routes: routes, tagger: tagger}
}

// Endpoints walks the route tree.
func (s *RouterSource) Endpoints() ([]Descriptor, error) {
	var descs []Descriptor
	err := chi.Walk(s.routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// chi reports subrouter roots as "/*"; normalize the trailing
		// wildcard away and collapse the root route.
		route = strings.TrimSuffix(route, "/*")
		if route == "" {
			route = "/"
		}
		var tags []string
		if s.tagger != nil {
			tags = s.tagger(method, route)
		}
		descs = append(descs, Descriptor{
			Method: Method(method),
			Path:   route,
			Tags:   tags,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}
	return descs, nil
}
