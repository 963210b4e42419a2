package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role identifies which analytics surface a user may reach.
type Role string

const (
	RoleManager   Role = "manager"
	RoleSales     Role = "sales_manager"
	RoleRestocker Role = "restocker"
)

// ErrInvalidCredentials is returned when a login attempt does not match a
// stored account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserNotFound is returned when a lookup names an account that does not
// exist or has been deactivated.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when account creation collides with an
// existing username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrSessionExpired is returned when a session token is unknown or past its
// TTL. The two cases are deliberately indistinguishable to callers.
var ErrSessionExpired = errors.New("session expired")

// ParseRole validates a role string coming from storage or a request.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleSales, RoleRestocker:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is an operator account.
type User struct {
	ID        int64
	Username  string
	Role      Role
	CreatedAt time.Time
	LastLogin *time.Time
}

// Session is an authenticated login. Tokens are opaque and expire after the
// configured TTL.
type Session struct {
	Token     string
	Username  string
	Role      Role
	ExpiresAt time.Time
}
