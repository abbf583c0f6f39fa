package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paharnama-dev/paharnama/internal/domain"
	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/paharnama-dev/paharnama/internal/middleware"
	"github.com/paharnama-dev/paharnama/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedRequest runs the handler behind the real auth middleware with a
// freshly minted access token, the way the router wires it.
func authedRequest(t *testing.T, handlerFunc http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	j := jwt.New("test-secret", 15*time.Minute, time.Hour)
	pair, err := j.NewTokenPair(domain.User{Id: 1, Email: "climber@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := newJSONRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	middleware.NeedAuth(j)(handlerFunc)(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler()
		var got service.RegisterRequest
		h.auth.RegisterFunc = func(req service.RegisterRequest) (domain.Profile, error) {
			got = req
			return domain.Profile{Id: 7, Email: req.Email}, nil
		}

		rec := doJSON(t, h.Register, "POST", "/v1/auth/register", map[string]string{
			"email":     "climber@example.com",
			"password":  "password123",
			"firstName": "Edmund",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "climber@example.com", got.Email)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Message)
	})

	t.Run("short password rejected", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Register, "POST", "/v1/auth/register", map[string]string{
			"email":    "climber@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Register, "POST", "/v1/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict propagates", func(t *testing.T) {
		h := newTestHandler()
		h.auth.RegisterFunc = func(req service.RegisterRequest) (domain.Profile, error) {
			return domain.Profile{}, statusError(http.StatusConflict, "User with this email already exists")
		}

		rec := doJSON(t, h.Register, "POST", "/v1/auth/register", map[string]string{
			"email":    "climber@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "User with this email already exists", env.Message)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns tokens and user", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Login, "POST", "/v1/auth/login", map[string]string{
			"email":    "climber@example.com",
			"password": "password123",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.True(t, env.Success)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, data, "user")
		assert.Contains(t, data, "tokens")
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := newTestHandler()
		h.auth.LoginFunc = func(email, password string) (domain.TokenPair, domain.Profile, error) {
			return domain.TokenPair{}, domain.Profile{}, statusError(http.StatusUnauthorized, "Invalid credentials")
		}

		rec := doJSON(t, h.Login, "POST", "/v1/auth/login", map[string]string{
			"email":    "climber@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Login, "POST", "/v1/auth/login", map[string]string{"email": "climber@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler()
		var gotToken string
		h.auth.VerifyEmailFunc = func(token string) error {
			gotToken = token
			return nil
		}

		rec := doJSON(t, h.VerifyEmail, "POST", "/v1/auth/verify-email", map[string]string{"token": "the-token"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "the-token", gotToken)
	})

	t.Run("bad token", func(t *testing.T) {
		h := newTestHandler()
		h.auth.VerifyEmailFunc = func(token string) error {
			return statusError(http.StatusBadRequest, "Invalid verification token")
		}

		rec := doJSON(t, h.VerifyEmail, "POST", "/v1/auth/verify-email", map[string]string{"token": "bad"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	// Known and unknown emails must be indistinguishable from outside.
	h := newTestHandler()
	h.auth.ResendVerificationFunc = func(email string) error { return nil }

	rec := doJSON(t, h.ResendVerification, "POST", "/v1/auth/resend-verification", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Message, "If an account with that email exists")
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Refresh, "POST", "/v1/auth/refresh", map[string]string{"refreshToken": "token"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		h := newTestHandler()
		h.auth.RefreshFunc = func(refreshToken string) (domain.TokenPair, error) {
			return domain.TokenPair{}, statusError(http.StatusUnauthorized, "Invalid or expired refresh token")
		}

		rec := doJSON(t, h.Refresh, "POST", "/v1/auth/refresh", map[string]string{"refreshToken": "stale"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	h := newTestHandler()
	var loggedOut domain.UserId
	h.auth.LogoutFunc = func(userId domain.UserId) error {
		loggedOut = userId
		return nil
	}

	rec := authedRequest(t, h.Logout, "POST", "/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.UserId(1), loggedOut)
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler()
		h.auth.ChangePasswordFunc = func(userId domain.UserId, currentPassword, newPassword string) error {
			assert.Equal(t, domain.UserId(1), userId)
			return nil
		}

		rec := authedRequest(t, h.ChangePassword, "POST", "/v1/auth/change-password", map[string]string{
			"currentPassword": "old-password",
			"newPassword":     "new-password",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("short new password rejected", func(t *testing.T) {
		h := newTestHandler()
		rec := authedRequest(t, h.ChangePassword, "POST", "/v1/auth/change-password", map[string]string{
			"currentPassword": "old-password",
			"newPassword":     "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProfileHandler(t *testing.T) {
	h := newTestHandler()
	h.users.UserByIdFunc = func(id domain.UserId) (domain.Profile, error) {
		return domain.Profile{Id: id, Email: "climber@example.com"}, nil
	}

	rec := authedRequest(t, h.Profile, "GET", "/v1/auth/profile", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "climber@example.com", data["email"])
}
