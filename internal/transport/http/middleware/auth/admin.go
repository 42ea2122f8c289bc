// Package auth provides authentication middleware for HTTP routes.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// verifiedTTL is how long a successful token verification is trusted.
const verifiedTTL = 5 * time.Minute

// TokenCache remembers tokens that passed argon2 verification.
type TokenCache = ristretto.Cache[string, bool]

// NewTokenCache creates a small cache for verified admin tokens.
func NewTokenCache() (*TokenCache, error) {
	return ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
}

// AdminAuth protects admin routes with a bearer token checked against
// an argon2id hash. cache may be nil, in which case every request pays
// for a full verification.
func AdminAuth(tokenHash string, cache *TokenCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				types.WriteError(w, http.StatusUnauthorized, "admin API not configured")
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				types.WriteError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			// Keyed by digest, not plaintext
			sum := sha256.Sum256([]byte(token))
			cacheKey := hex.EncodeToString(sum[:])

			if cache != nil {
				if ok, found := cache.Get(cacheKey); found && ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			valid, err := VerifyToken(token, tokenHash)
			if err != nil || !valid {
				types.WriteError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			if cache != nil {
				cache.SetWithTTL(cacheKey, true, 1, verifiedTTL)
			}

			next.ServeHTTP(w, r)
		})
	}
}
