package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

func (s *Server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		session, err := s.deps.Auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				http.Error(w, `{"error":"invalid username or password"}`, http.StatusUnauthorized)
				return
			}
			s.logger.Error("login failed", slog.String("error", err.Error()))
			s.renderQueryError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, loginResponse{
			Token:     session.Token,
			Username:  session.Username,
			Role:      string(session.Role),
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		})
	}
}

func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := port.SessionFromContext(r.Context())
		s.deps.Auth.Logout(session.Token)
		w.WriteHeader(http.StatusNoContent)
	}
}
