package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paharnama-dev/paharnama/internal/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP(t *testing.T) {
	rl := ratelimiter.NewUserRateLimiter(0, 2, time.Hour) // 2 requests, no refill
	defer rl.Stop()
	handler := RateLimit(rl, GetIP)(okHandler())

	send := func(remoteAddr string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234"))

	// A different IP has its own bucket.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestRateLimitByEmail(t *testing.T) {
	rl := ratelimiter.NewUserRateLimiter(0, 1, time.Hour)
	defer rl.Stop()
	handler := RateLimit(rl, GetEmailFromBody)(okHandler())

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send(`{"email":"a@example.com"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, send(`{"email":"a@example.com"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, send(`{"email":"A@Example.com"}`).Code, "Identity should be case-insensitive")
	assert.Equal(t, http.StatusOK, send(`{"email":"b@example.com"}`).Code)

	t.Run("missing email is an error", func(t *testing.T) {
		rec := send(`{}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetEmailFromBodyRestoresBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com"}`))

	email, err := GetEmailFromBody(req)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	// The handler downstream must still be able to read the body.
	again, err := GetEmailFromBody(req)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again)
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.7:9999"

	ip, err := GetIP(req)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.7", ip)

	req.RemoteAddr = "not-an-ip"
	_, err = GetIP(req)
	require.Error(t, err)
}
