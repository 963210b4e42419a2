package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

const (
	queryUserByLogin = `
	SELECT id, username, role, created_at, last_login
	FROM users
	WHERE username = $1 AND password_hash = $2 AND is_active = TRUE`

	queryUserByName = `
	SELECT id, username, role, created_at, last_login
	FROM users
	WHERE username = $1 AND is_active = TRUE`

	stmtTouchLastLogin = `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`

	stmtInsertUser = `
	INSERT INTO users (username, password_hash, role)
	VALUES ($1, $2, $3)
	ON CONFLICT (username) DO NOTHING`
)

// UserStoreAdapter implements port.UserStore on top of the users table.
// Passwords are stored as unsalted SHA-256 hex digests.
type UserStoreAdapter struct {
	exec port.QueryExecutor
}

// NewUserStore creates a new UserStoreAdapter.
func NewUserStore(exec port.QueryExecutor) *UserStoreAdapter {
	return &UserStoreAdapter{exec: exec}
}

// HashPassword returns the hex digest stored in the password_hash column.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate matches the pair against active accounts and stamps
// last_login on success.
func (a *UserStoreAdapter) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	tbl, err := a.exec.Query(ctx, queryUserByLogin, username, HashPassword(password))
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	if tbl.Empty() {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := userFromRow(tbl, 0)
	if err != nil {
		return nil, err
	}

	if _, err := a.exec.Exec(ctx, stmtTouchLastLogin, user.ID); err != nil {
		return nil, fmt.Errorf("recording login time: %w", err)
	}
	return user, nil
}

func (a *UserStoreAdapter) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	tbl, err := a.exec.Query(ctx, queryUserByName, username)
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	if tbl.Empty() {
		return nil, domain.ErrUserNotFound
	}
	return userFromRow(tbl, 0)
}

func (a *UserStoreAdapter) Create(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	affected, err := a.exec.Exec(ctx, stmtInsertUser, username, HashPassword(password), string(role))
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrUsernameTaken
	}
	return a.GetByUsername(ctx, username)
}

func userFromRow(tbl domain.Table, row int) (*domain.User, error) {
	rawID, _ := tbl.Value(row, "id")
	id, ok := asInt64(rawID)
	if !ok {
		return nil, fmt.Errorf("account row: unexpected id %T", rawID)
	}
	rawName, _ := tbl.Value(row, "username")
	username, ok := asString(rawName)
	if !ok {
		return nil, fmt.Errorf("account row: unexpected username %T", rawName)
	}
	rawRole, _ := tbl.Value(row, "role")
	roleStr, ok := asString(rawRole)
	if !ok {
		return nil, fmt.Errorf("account row: unexpected role %T", rawRole)
	}
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("account row: %w", err)
	}

	user := &domain.User{
		ID:        id,
		Username:  username,
		Role:      role,
		CreatedAt: timeAt(tbl, row, "created_at"),
	}
	if v, _ := tbl.Value(row, "last_login"); v != nil {
		if t, ok := asTime(v); ok {
			user.LastLogin = &t
		}
	}
	return user, nil
}
