package kvauth

import (
	"time"

	"github.com/quellcrist/kvauth/users"
)

// Role is re-exported from the users package for caller convenience.
type Role = users.Role

const (
	// RoleAdmin grants access to the privileged engine operations.
	RoleAdmin = users.RoleAdmin
	// RoleUser is the unprivileged default.
	RoleUser = users.RoleUser
)

// UserInfo is the listing shape returned by [Engine.ListUsers]; it never
// carries a digest.
type UserInfo = users.Info

// LoginResult is returned by a successful [Engine.Login].
type LoginResult struct {
	Token string
	Role  Role
}

// AuthResult is returned by [Engine.ValidateSession]. Username and Role are
// the values snapshotted at login, not a fresh lookup against the credential
// store.
type AuthResult struct {
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// Stats is the aggregate counter record kept at the statistics key.
type Stats struct {
	LoginCount int64     `json:"login_count"`
	LastLogin  time.Time `json:"last_login"`
	ViewCount  int64     `json:"view_count"`
}
