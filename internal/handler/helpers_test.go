package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/recipe-api/internal/handler"
	"github.com/msomdec/recipe-api/internal/repository/sqlite"
	"github.com/msomdec/recipe-api/internal/service"
	"github.com/msomdec/recipe-api/internal/validation"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testServer struct {
	*httptest.Server
	services handler.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimiter(t, service.NewRateLimiter(100, 100))
}

func newTestServerWithLimiter(t *testing.T, limiter *service.RateLimiter) *testServer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	t.Cleanup(limiter.Stop)

	v := validation.New()
	auth := service.NewAuthService(db.Users(), v, testJWTSecret, 4, 0)
	svc := handler.Services{
		Auth:         auth,
		Recipes:      service.NewRecipeService(db.Recipes(), db.Tags(), v),
		Tags:         service.NewTagService(db.Tags(), v),
		Admin:        service.NewAdminService(db.Users(), auth, v),
		LoginLimiter: limiter,
	}

	srv := httptest.NewServer(handler.NewRouter(svc, handler.Options{}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, services: svc}
}

// do sends a JSON request, authenticating with token when it is non-empty.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// register creates a user through the API and returns a bearer token for it.
func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/user/create", "", map[string]string{
		"email": email, "password": "password123", "name": "Test User",
	})
	expectStatus(t, resp, http.StatusCreated)

	resp = s.do(t, http.MethodPost, "/api/user/token", "", map[string]string{
		"email": email, "password": "password123",
	})
	expectStatus(t, resp, http.StatusOK)

	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	if out.Token == "" {
		t.Fatal("expected token in response")
	}
	return out.Token
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected status %d, got %d: %s",
			resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
