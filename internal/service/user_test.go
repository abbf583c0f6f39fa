package service

import (
	"net/http"
	"testing"

	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockUserStorage struct {
	UsersFunc             func(query domain.UserQuery) ([]domain.User, int, error)
	UserByIdFunc          func(id domain.UserId) (domain.User, error)
	UpdateUserFunc        func(id domain.UserId, update domain.UserUpdate) (domain.User, error)
	ClearRefreshTokenFunc func(id domain.UserId) error
}

func (m *MockUserStorage) Users(query domain.UserQuery) ([]domain.User, int, error) {
	if m.UsersFunc != nil {
		return m.UsersFunc(query)
	}
	return nil, 0, nil
}

func (m *MockUserStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
}

func (m *MockUserStorage) UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(id, update)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserStorage) ClearRefreshToken(id domain.UserId) error {
	if m.ClearRefreshTokenFunc != nil {
		return m.ClearRefreshTokenFunc(id)
	}
	return nil
}

// --- Tests ---

func TestUsersListing(t *testing.T) {
	hash := "refresh-hash"
	storage := &MockUserStorage{
		UsersFunc: func(query domain.UserQuery) ([]domain.User, int, error) {
			return []domain.User{
				{Id: 1, Email: "a@example.com", PasswordHash: "secret", RefreshTokenHash: &hash},
				{Id: 2, Email: "b@example.com", PasswordHash: "secret"},
			}, 2, nil
		},
	}
	svc := NewUser(storage)

	profiles, total, err := svc.Users(domain.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, profiles, 2)
	assert.Equal(t, "a@example.com", profiles[0].Email)
}

func TestUserByIdProfile(t *testing.T) {
	storage := &MockUserStorage{
		UserByIdFunc: func(id domain.UserId) (domain.User, error) {
			return domain.User{Id: id, Email: "a@example.com", PasswordHash: "secret"}, nil
		},
	}
	svc := NewUser(storage)

	profile, err := svc.UserById(1)
	require.NoError(t, err)
	assert.Equal(t, domain.UserId(1), profile.Id)
}

func TestUpdateUserAdmin(t *testing.T) {
	t.Run("invalid role rejected", func(t *testing.T) {
		svc := NewUser(&MockUserStorage{})
		bad := domain.Role("superuser")
		_, err := svc.UpdateUser(1, domain.UserUpdate{Role: &bad})
		require.Error(t, err)
		e, ok := err.(*internal_errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, e.StatusCode)
	})

	t.Run("deactivation clears refresh token", func(t *testing.T) {
		cleared := false
		storage := &MockUserStorage{
			ClearRefreshTokenFunc: func(id domain.UserId) error {
				cleared = true
				return nil
			},
		}
		svc := NewUser(storage)

		inactive := false
		_, err := svc.UpdateUser(1, domain.UserUpdate{IsActive: &inactive})
		require.NoError(t, err)
		assert.True(t, cleared)
	})

	t.Run("activation leaves session alone", func(t *testing.T) {
		storage := &MockUserStorage{
			ClearRefreshTokenFunc: func(id domain.UserId) error {
				t.Fatal("refresh token should not be cleared on activation")
				return nil
			},
		}
		svc := NewUser(storage)

		active := true
		_, err := svc.UpdateUser(1, domain.UserUpdate{IsActive: &active})
		require.NoError(t, err)
	})
}
