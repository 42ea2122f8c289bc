package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/provider/gateway"
	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/chat"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware/auth"
)

const adminToken = "router-admin-token-0123"

func newTestRouter(t *testing.T, apiKey string, withAdmin bool) http.Handler {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	repo := handler.NewRepo(chat.Options{
		Config:   &config.Config{Model: "test/model", APIKey: apiKey},
		Provider: gateway.New("http://127.0.0.1:1"),
		Storage:  store,
	})
	t.Cleanup(repo.Chat.Wait)

	opts := &RouterOptions{}
	if withAdmin {
		hash, err := auth.HashToken(adminToken, &auth.Argon2Params{
			Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
		})
		if err != nil {
			t.Fatalf("hash token: %v", err)
		}
		opts.AdminTokenHash = hash
	}
	return NewRouter(repo, opts)
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if method == http.MethodPost {
		body = strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, "key", false)
	rec := serve(h, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "active" || body["app"] != "chatrelay" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouter_RootReportsConfiguration(t *testing.T) {
	tests := []struct {
		apiKey string
		want   bool
	}{
		{"", false},
		{"key", true},
	}

	for _, tt := range tests {
		h := newTestRouter(t, tt.apiKey, false)
		rec := serve(h, http.MethodGet, "/", "")

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["configured"] != tt.want {
			t.Errorf("apiKey=%q: configured = %v, want %v", tt.apiKey, body["configured"], tt.want)
		}
		if body["name"] != "chatrelay" {
			t.Errorf("name = %v", body["name"])
		}
	}
}

func TestRouter_ChatPaths(t *testing.T) {
	h := newTestRouter(t, "", false)

	for _, path := range []string{"/api/chat", "/functions/v1/chat"} {
		t.Run(path, func(t *testing.T) {
			pre := serve(h, http.MethodOptions, path, "")
			if pre.Code != http.StatusOK || pre.Body.Len() != 0 {
				t.Errorf("preflight: status = %d, body = %q", pre.Code, pre.Body.String())
			}

			rec := serve(h, http.MethodPost, path, "")
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "AI_GATEWAY_API_KEY is not configured") {
				t.Errorf("body = %s", rec.Body.String())
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header on error response")
			}
		})
	}
}

func TestRouter_AdminDisabled(t *testing.T) {
	h := newTestRouter(t, "key", false)
	rec := serve(h, http.MethodGet, "/api/admin/usage", adminToken)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	h := newTestRouter(t, "key", true)

	if rec := serve(h, http.MethodGet, "/api/admin/logs", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want 401", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/api/admin/logs", "wrong-token-0123456789"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}

	for _, target := range []string{
		"/api/admin/status",
		"/api/admin/usage",
		"/api/admin/usage/daily?start_date=2026-01-01&end_date=2026-01-31",
		"/api/admin/logs?limit=10",
	} {
		if rec := serve(h, http.MethodGet, target, adminToken); rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, body = %s", target, rec.Code, rec.Body.String())
		}
	}

	rec := serve(h, http.MethodDelete, "/api/admin/logs?older_than=2026-01-01", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n, ok := body["deleted"]; !ok || n != 0 {
		t.Errorf("body = %v", body)
	}

	if rec := serve(h, http.MethodDelete, "/api/admin/logs", adminToken); rec.Code != http.StatusBadRequest {
		t.Errorf("DELETE without older_than: status = %d, want 400", rec.Code)
	}
	if rec := serve(h, http.MethodDelete, "/api/admin/logs?older_than=01/02/2026", adminToken); rec.Code != http.StatusBadRequest {
		t.Errorf("DELETE with bad date: status = %d, want 400", rec.Code)
	}
}
