package port

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
)

// UserStore persists operator accounts. Authenticate returns
// domain.ErrInvalidCredentials when the username/password pair does not match
// a stored account.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
}
