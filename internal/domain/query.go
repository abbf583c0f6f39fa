package domain

import "time"

// UserQuery narrows and paginates admin user listings.
// Zero-valued filters are ignored.
type UserQuery struct {
	Page       int
	Limit      int
	Search     string
	Role       *Role
	IsActive   *bool
	IsVerified *bool
}

func (q UserQuery) Normalized() UserQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

func (q UserQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// UserUpdate carries the mutable admin-editable user fields.
// Nil pointers leave the stored value untouched.
type UserUpdate struct {
	FirstName  *string
	LastName   *string
	Role       *Role
	IsActive   *bool
	IsVerified *bool
}

// MountainUpdate carries a partial mountain update plus translations to
// upsert. Nil pointers leave the stored value untouched.
type MountainUpdate struct {
	Altitude         *string
	HasDeathZone     *bool
	FirstClimbedDate *time.Time
	MountainImg      *string
	CountryFlagImg   *string
	Translations     []MountainTranslation
}
