package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// testParams keeps argon2 cheap in tests.
var testParams = &Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

const testToken = "admin-token-0123456789"

func TestHashToken(t *testing.T) {
	hash, err := HashToken(testToken, testParams)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	other, err := HashToken(testToken, testParams)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	if hash == other {
		t.Error("expected distinct salts to produce distinct hashes")
	}

	if _, err := HashToken("short", testParams); err == nil {
		t.Error("expected error for short token")
	}
}

func TestVerifyToken(t *testing.T) {
	hash, err := HashToken(testToken, testParams)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		hash    string
		want    bool
		wantErr error
	}{
		{name: "correct token", token: testToken, hash: hash, want: true},
		{name: "wrong token", token: "not-the-admin-token", hash: hash, want: false},
		{name: "garbage hash", token: testToken, hash: "plaintext", wantErr: ErrMalformedHash},
		{name: "wrong algorithm", token: testToken, hash: "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrMalformedHash},
		{name: "bad version", token: testToken, hash: "$argon2id$v=1$m=1024,t=1,p=1$c2FsdA$a2V5", wantErr: ErrMalformedHash},
		{name: "bad salt", token: testToken, hash: "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5", wantErr: ErrMalformedHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyToken(tt.token, tt.hash)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyToken = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminAuth(t *testing.T) {
	hash, err := HashToken(testToken, testParams)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	tests := []struct {
		name           string
		tokenHash      string
		authHeader     string
		wantStatus     int
		wantNextCalled bool
	}{
		{name: "correct token passes", tokenHash: hash, authHeader: "Bearer " + testToken, wantStatus: http.StatusOK, wantNextCalled: true},
		{name: "wrong token rejects", tokenHash: hash, authHeader: "Bearer wrong-token-wrong-token", wantStatus: http.StatusUnauthorized},
		{name: "missing header rejects", tokenHash: hash, authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header rejects", tokenHash: hash, authHeader: "Basic " + testToken, wantStatus: http.StatusUnauthorized},
		{name: "unconfigured rejects", tokenHash: "", authHeader: "Bearer " + testToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := AdminAuth(tt.tokenHash, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/usage", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if nextCalled != tt.wantNextCalled {
				t.Errorf("expected nextCalled=%v, got %v", tt.wantNextCalled, nextCalled)
			}
			if rec.Code == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestAdminAuth_CachesVerifiedToken(t *testing.T) {
	hash, err := HashToken(testToken, testParams)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	cache, err := NewTokenCache()
	if err != nil {
		t.Fatalf("NewTokenCache failed: %v", err)
	}
	defer cache.Close()

	handler := AdminAuth(hash, cache)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}

	cache.Wait()
	sum := sha256.Sum256([]byte(testToken))
	if ok, found := cache.Get(hex.EncodeToString(sum[:])); !found || !ok {
		t.Fatal("expected verified token to be cached")
	}

	// A cached token is accepted without re-running verification
	cached := AdminAuth("$argon2id$unparseable", cache)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec = httptest.NewRecorder()
	cached.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected cache hit to pass, got %d", rec.Code)
	}
}
