package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paharnama-dev/paharnama/internal/config"
	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
	"github.com/paharnama-dev/paharnama/internal/service"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc           func(req service.RegisterRequest) (domain.Profile, error)
	LoginFunc              func(email, password string) (domain.TokenPair, domain.Profile, error)
	VerifyEmailFunc        func(token string) error
	ResendVerificationFunc func(email string) error
	RefreshFunc            func(refreshToken string) (domain.TokenPair, error)
	LogoutFunc             func(userId domain.UserId) error
	ChangePasswordFunc     func(userId domain.UserId, currentPassword, newPassword string) error
}

func (m *MockAuthService) Register(req service.RegisterRequest) (domain.Profile, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(req)
	}
	return domain.Profile{Id: 1, Email: req.Email}, nil
}

func (m *MockAuthService) Login(email, password string) (domain.TokenPair, domain.Profile, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password)
	}
	return domain.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, domain.Profile{Id: 1, Email: email}, nil
}

func (m *MockAuthService) VerifyEmail(token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(token)
	}
	return nil
}

func (m *MockAuthService) ResendVerification(email string) error {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(email)
	}
	return nil
}

func (m *MockAuthService) Refresh(refreshToken string) (domain.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(refreshToken)
	}
	return domain.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *MockAuthService) Logout(userId domain.UserId) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(userId)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(userId domain.UserId, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(userId, currentPassword, newPassword)
	}
	return nil
}

type MockMountainService struct {
	CreateFunc func(mountain domain.Mountain) (domain.Mountain, error)
	AllFunc    func(language string) ([]domain.Mountain, error)
	ByIdFunc   func(id int64, language string) (domain.Mountain, error)
	UpdateFunc func(id int64, update domain.MountainUpdate) (domain.Mountain, error)
	DeleteFunc func(id int64) error
}

func (m *MockMountainService) Create(mountain domain.Mountain) (domain.Mountain, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(mountain)
	}
	mountain.Id = 1
	return mountain, nil
}

func (m *MockMountainService) All(language string) ([]domain.Mountain, error) {
	if m.AllFunc != nil {
		return m.AllFunc(language)
	}
	return nil, nil
}

func (m *MockMountainService) ById(id int64, language string) (domain.Mountain, error) {
	if m.ByIdFunc != nil {
		return m.ByIdFunc(id, language)
	}
	return domain.Mountain{Id: id}, nil
}

func (m *MockMountainService) Update(id int64, update domain.MountainUpdate) (domain.Mountain, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, update)
	}
	return domain.Mountain{Id: id}, nil
}

func (m *MockMountainService) Delete(id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

type MockUserService struct {
	UsersFunc      func(query domain.UserQuery) ([]domain.Profile, int, error)
	UserByIdFunc   func(id domain.UserId) (domain.Profile, error)
	UpdateUserFunc func(id domain.UserId, update domain.UserUpdate) (domain.Profile, error)
}

func (m *MockUserService) Users(query domain.UserQuery) ([]domain.Profile, int, error) {
	if m.UsersFunc != nil {
		return m.UsersFunc(query)
	}
	return nil, 0, nil
}

func (m *MockUserService) UserById(id domain.UserId) (domain.Profile, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.Profile{Id: id}, nil
}

func (m *MockUserService) UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.Profile, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(id, update)
	}
	return domain.Profile{Id: id}, nil
}

type MockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- Helpers ---

type testHandler struct {
	*Handler
	auth      *MockAuthService
	mountains *MockMountainService
	users     *MockUserService
	pinger    *MockPinger
}

func newTestHandler() *testHandler {
	auth := &MockAuthService{}
	mountains := &MockMountainService{}
	users := &MockUserService{}
	pinger := &MockPinger{}
	cfg := &config.Config{Public: config.Public{DefaultLanguage: "en"}}
	return &testHandler{
		Handler:   New(auth, mountains, users, pinger, cfg),
		auth:      auth,
		mountains: mountains,
		users:     users,
		pinger:    pinger,
	}
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, target, &buf)
}

func doJSON(t *testing.T, handlerFunc http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handlerFunc(rec, newJSONRequest(t, method, target, body))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func statusError(status int, message string) error {
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: status}
}
