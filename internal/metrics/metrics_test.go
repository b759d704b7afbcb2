package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/content"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("scrape status: got %d, want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m, err := Setup("inkwell-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := range 3 {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/posts/%d", i), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	out := scrape(t, m)
	if !strings.Contains(out, "inkwell_http_requests_total") {
		t.Fatalf("request counter missing from scrape:\n%s", out)
	}
	if !strings.Contains(out, `route="/api/posts/{id}"`) {
		t.Errorf("route label missing from scrape:\n%s", out)
	}
	if strings.Contains(out, `route="/api/posts/1"`) {
		t.Error("raw path leaked into route label")
	}
	if !strings.Contains(out, "go_goroutines") {
		t.Error("Go runtime collector not registered")
	}
}

func TestRecordOperation(t *testing.T) {
	m, err := Setup("inkwell-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	ctx := context.Background()

	svc := content.New(store.NewMemoryPostStore(), store.NewMemoryCategoryStore())
	_, err = svc.Categories.Create(ctx, models.CategoryInput{Name: ""})
	m.RecordOperation(ctx, "create category", err)
	m.RecordOperation(ctx, "create category", nil)

	out := scrape(t, m)
	for _, want := range []string{`outcome="invalid"`, `outcome="ok"`, `op="create category"`} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %s", want)
		}
	}
}

func TestOutcome(t *testing.T) {
	svc := content.New(store.NewMemoryPostStore(), store.NewMemoryCategoryStore())
	ctx := context.Background()
	c, _ := svc.Categories.Create(ctx, models.CategoryInput{Name: "Design"})
	_, conflictErr := svc.Categories.Create(ctx, models.CategoryInput{Name: "design"})
	_, notFoundErr := svc.Posts.Get(ctx, c.ID)
	_, invalidErr := svc.Posts.Create(ctx, models.PostInput{}, models.Author{})

	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{invalidErr, "invalid"},
		{notFoundErr, "not_found"},
		{conflictErr, "conflict"},
		{fmt.Errorf("wrapped: %w", conflictErr), "conflict"},
		{errors.New("connection refused"), "error"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	m.RecordOperation(ctx, "x", nil)
	m.RecordCacheHit(ctx, "posts")
	m.RecordCacheMiss(ctx, "posts")
	if err := m.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("nil handler status: got %d, want 404", rr.Code)
	}

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("nil middleware should pass through")
	}
}
