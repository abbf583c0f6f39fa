package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paharnama-dev/paharnama/internal/domain"
	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJwt() *jwt.Jwt {
	return jwt.New("secret", 15*time.Minute, 7*24*time.Hour)
}

func tokenFor(t *testing.T, j *jwt.Jwt, role domain.Role) string {
	t.Helper()
	pair, err := j.NewTokenPair(domain.User{Id: 1, Email: "climber@example.com", Role: role})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAuth(t *testing.T) {
	j := testJwt()

	echoClaims := func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaimsFromContext(r)
		require.NotNil(t, claims)
		assert.Equal(t, domain.UserId(1), claims.UserId)
		w.WriteHeader(http.StatusOK)
	}

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, j, domain.RoleUser))
		rec := httptest.NewRecorder()

		NeedAuth(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()

		NeedAuth(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		NeedAuth(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()

		NeedAuth(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		pair, err := j.NewTokenPair(domain.User{Id: 1, Role: domain.RoleUser})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rec := httptest.NewRecorder()

		NeedAuth(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin only rejects regular user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, j, domain.RoleUser))
		rec := httptest.NewRecorder()

		AdminOnly(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin only passes admin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, j, domain.RoleAdmin))
		rec := httptest.NewRecorder()

		AdminOnly(j)(echoClaims)(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
