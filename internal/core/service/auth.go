package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// AuthService verifies credentials against the user store and tracks opaque
// session tokens in memory. A restart logs everyone out. Expired sessions
// are evicted by a background sweeper.
type AuthService struct {
	users  port.UserStore
	clock  clockwork.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]domain.Session

	stopSweep context.CancelFunc
	done      chan struct{}
}

// NewAuthService starts the expiry sweeper; call Close to stop it.
func NewAuthService(users port.UserStore, ttl time.Duration, logger *slog.Logger) *AuthService {
	return newAuthService(users, ttl, logger, clockwork.NewRealClock())
}

func newAuthService(users port.UserStore, ttl time.Duration, logger *slog.Logger, clock clockwork.Clock) *AuthService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &AuthService{
		users:     users,
		clock:     clock,
		ttl:       ttl,
		logger:    logger,
		sessions:  make(map[string]domain.Session),
		stopSweep: cancel,
		done:      make(chan struct{}),
	}
	go s.sweepLoop(ctx)
	return s
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		Token:     uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("session issued",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return session, nil
}

// Resolve returns the session for a token, or domain.ErrSessionExpired when
// the token is unknown or past its TTL.
func (s *AuthService) Resolve(token string) (domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || s.clock.Now().After(session.ExpiresAt) {
		return domain.Session{}, domain.ErrSessionExpired
	}
	return session, nil
}

// Logout drops the session. Unknown tokens are a no-op.
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Close stops the background sweeper and waits for it to exit.
func (s *AuthService) Close() {
	s.stopSweep()
	<-s.done
}

func (s *AuthService) sweepLoop(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.evictExpired()
		}
	}
}

func (s *AuthService) evictExpired() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
