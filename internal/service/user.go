package service

import (
	"net/http"

	"github.com/paharnama-dev/paharnama/internal/domain"
	"github.com/paharnama-dev/paharnama/internal/errors"
)

// UserService is the admin-facing account management surface.
type UserService interface {
	Users(query domain.UserQuery) ([]domain.Profile, int, error)
	UserById(id domain.UserId) (domain.Profile, error)
	UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.Profile, error)
}

type UserStorage interface {
	Users(query domain.UserQuery) ([]domain.User, int, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.User, error)
	ClearRefreshToken(id domain.UserId) error
}

type User struct {
	storage UserStorage
}

func NewUser(storage UserStorage) *User {
	return &User{storage: storage}
}

func (u *User) Users(query domain.UserQuery) ([]domain.Profile, int, error) {
	users, total, err := u.storage.Users(query)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]domain.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	return profiles, total, nil
}

func (u *User) UserById(id domain.UserId) (domain.Profile, error) {
	user, err := u.storage.UserById(id)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateUser applies an admin edit. Deactivating an account also drops
// its refresh token so the session dies at the next refresh.
func (u *User) UpdateUser(id domain.UserId, update domain.UserUpdate) (domain.Profile, error) {
	if update.Role != nil && !update.Role.Valid() {
		return domain.Profile{}, &errors.ErrorWithStatusCode{Message: "Invalid role", StatusCode: http.StatusBadRequest}
	}

	user, err := u.storage.UpdateUser(id, update)
	if err != nil {
		return domain.Profile{}, err
	}

	if update.IsActive != nil && !*update.IsActive {
		if err := u.storage.ClearRefreshToken(id); err != nil {
			return domain.Profile{}, err
		}
	}
	return user.Profile(), nil
}
