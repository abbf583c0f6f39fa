package domain

import "time"

type UserId = int64

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is the full account record, including credential material.
// Never serialize it directly; expose Profile() instead.
type User struct {
	Id               UserId
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Role             Role
	IsVerified       bool
	IsActive         bool
	LastLoginAt      *time.Time
	RefreshTokenHash *string
	CreatedAt        time.Time
}

// Profile is the client-facing view of a user. It deliberately omits
// the password hash and refresh token hash.
type Profile struct {
	Id          UserId     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	IsVerified  bool       `json:"isVerified"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{
		Id:          u.Id,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
