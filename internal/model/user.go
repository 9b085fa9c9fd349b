// Package model defines domain entities for the application.
package model

import (
	"strconv"
	"time"
)

// MaxUsernameLength is the column width of users.username.
const MaxUsernameLength = 50

// User is an account identified by a unique username.
type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedUser represents user data stored in a Redis hash.
type CachedUser struct {
	Username  string `redis:"username"`
	CreatedAt string `redis:"created_at"` // Unix nanoseconds
}

// ToCachedUser converts a User to its cache representation.
func (u *User) ToCachedUser() *CachedUser {
	return &CachedUser{
		Username:  u.Username,
		CreatedAt: strconv.FormatInt(u.CreatedAt.UnixNano(), 10),
	}
}

// ToUser rebuilds a User from its cache representation.
// Returns false if the entry is incomplete.
func (c *CachedUser) ToUser(id int64) (*User, bool) {
	if c.Username == "" {
		return nil, false
	}
	nanos, err := strconv.ParseInt(c.CreatedAt, 10, 64)
	if err != nil {
		return nil, false
	}
	return &User{
		ID:        id,
		Username:  c.Username,
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, true
}
