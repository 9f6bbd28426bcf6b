package compose

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tagHandler(tag string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tag))
	})
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(body)
}

func TestComposeDispatch(t *testing.T) {
	table, err := Compose(tagHandler("adapted"), "/mcp", tagHandler("original"), []string{"/", "/search", "/stats/{project_id}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "adapter root", path: "/mcp", want: "adapted"},
		{name: "adapter subpath", path: "/mcp/sse", want: "adapted"},
		{name: "original root", path: "/", want: "original"},
		{name: "original endpoint", path: "/search", want: "original"},
		{name: "original parameterized", path: "/stats/p1", want: "original"},
		{name: "prefix-like endpoint stays original", path: "/mcpx", want: "original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := get(t, table, tt.path)
			if body != tt.want {
				t.Fatalf("path %s routed to %q, want %q", tt.path, body, tt.want)
			}
		})
	}
}

func TestComposeConflicts(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		paths  []string
	}{
		{name: "root prefix", prefix: "/", paths: nil},
		{name: "empty prefix", prefix: "", paths: nil},
		{name: "relative prefix", prefix: "mcp", paths: nil},
		{name: "backend path equals prefix", prefix: "/mcp", paths: []string{"/mcp"}},
		{name: "backend path under prefix", prefix: "/mcp", paths: []string{"/mcp/search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tagHandler("a"), tt.prefix, tagHandler("o"), tt.paths)
			if err == nil {
				t.Fatal("expected RouteConflictError")
			}
			var rce *RouteConflictError
			if !errors.As(err, &rce) {
				t.Fatalf("expected RouteConflictError, got %T", err)
			}
		})
	}
}

func TestComposeNoConflictOnSiblingPaths(t *testing.T) {
	if _, err := Compose(tagHandler("a"), "/mcp", tagHandler("o"), []string{"/mcpx", "/m"}); err != nil {
		t.Fatalf("sibling paths must not conflict: %v", err)
	}
}

func TestServerReload(t *testing.T) {
	first, err := Compose(tagHandler("one"), "/mcp", tagHandler("orig"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv := NewServer(first)

	if _, body := get(t, srv, "/mcp"); body != "one" {
		t.Fatalf("before reload got %q", body)
	}

	second, err := Compose(tagHandler("two"), "/mcp", tagHandler("orig"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv.Reload(second)

	if _, body := get(t, srv, "/mcp"); body != "two" {
		t.Fatalf("after reload got %q", body)
	}
}

func TestMiddlewareChain(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table, err := Compose(tagHandler("adapted"), "/mcp", tagHandler("original"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := Wrap(table, logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/anything", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS preflight status = %d, want 204", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recovery(logger)(panics)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
