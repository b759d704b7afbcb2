// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store; the Valkey-backed page cache
// tests are skipped when Valkey is unavailable.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/content"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

const (
	testPassword = "securepassword"
	testToken    = "valid_admin_token"
)

var testIdentity = models.Identity{
	Username:    "admin",
	DisplayName: "Admin",
	Avatar:      "/placeholder.svg?height=100&width=100",
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Svc       *content.Services
	PageCache *cache.PageCache
	Admin     *Admin
	Public    *Public
	Auth      *Auth
}

// newTestEnv creates handlers over empty memory stores with no page cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, pc *cache.PageCache) *testEnv {
	t.Helper()

	svc := content.New(store.NewMemoryPostStore(), store.NewMemoryCategoryStore())

	authn, err := auth.NewAuthenticator(testIdentity, testPassword, "")
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	static := auth.NewStaticToken(testToken, testIdentity)

	return &testEnv{
		Svc:       svc,
		PageCache: pc,
		Admin:     NewAdmin(svc, pc, nil),
		Public:    NewPublic(svc, pc, nil),
		Auth:      NewAuth(authn, static, time.Hour, false),
	}
}

// seed fills the stores with the demo content.
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	if err := content.Seed(context.Background(), e.Svc); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}

// newCategory creates a category through the service.
func (e *testEnv) newCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := e.Svc.Categories.Create(context.Background(), models.CategoryInput{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

// newPost creates a post through the service.
func (e *testEnv) newPost(t *testing.T, in models.PostInput) *models.Post {
	t.Helper()
	p, err := e.Svc.Posts.Create(context.Background(), in, testIdentity.Author())
	if err != nil {
		t.Fatalf("create post %q: %v", in.Title, err)
	}
	return p
}

// jsonRequest builds a request with body encoded as JSON. A nil body sends
// no body at all.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeResult decodes the response envelope.
func decodeResult[T any](t *testing.T, rec *httptest.ResponseRecorder) content.Result[T] {
	t.Helper()
	var res content.Result[T]
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return res
}

// ctxWithIdentity adds the admin identity to a context using the middleware key.
func ctxWithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, middleware.IdentityKey, id)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func ptr[T any](v T) *T { return &v }
