package port

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
)

type contextKey int

const sessionKey contextKey = iota

// ContextWithSession attaches an authenticated session to the context.
func ContextWithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext extracts the session from the context.
// ok is false when the request was not authenticated.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(domain.Session)
	return session, ok
}
