package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/search":
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"query":"q"}` {
				t.Errorf("body = %s", body)
			}
			w.Write([]byte(`{"results":[]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/stats/p1":
			w.Write([]byte(`{"memories":1}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := New(ts.URL+"/", 5*time.Second)

	t.Run("post with body", func(t *testing.T) {
		body, status, err := c.Post(context.Background(), "/search", []byte(`{"query":"q"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if string(body) != `{"results":[]}` {
			t.Fatalf("body = %s", body)
		}
	})

	t.Run("get", func(t *testing.T) {
		body, status, err := c.Get(context.Background(), "/stats/p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != http.StatusOK || string(body) != `{"memories":1}` {
			t.Fatalf("status = %d body = %s", status, body)
		}
	})

	t.Run("non-2xx passes through", func(t *testing.T) {
		body, status, err := c.Get(context.Background(), "/missing")
		if err != nil {
			t.Fatalf("non-2xx must not be a transport error: %v", err)
		}
		if status != http.StatusNotFound {
			t.Fatalf("status = %d", status)
		}
		if len(body) == 0 {
			t.Fatal("error body must pass through")
		}
	})
}

func TestClientHealthCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer healthy.Close()

	if err := New(healthy.URL, 5*time.Second).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer sick.Close()

	if err := New(sick.URL, 5*time.Second).HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for unhealthy backend")
	}
}

func TestClientContextCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, _, err := New(ts.URL, 5*time.Second).Get(ctx, "/slow"); err == nil {
		t.Fatal("expected context deadline error")
	}
}
