package auth

import (
	"context"
	"strings"
	"time"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/session"
)

// LogoutDeps contains dependencies for the logout service.
type LogoutDeps struct {
	Revocations *session.RevocationStore
	// RetainFor es cuánto tiempo se recuerda la revocación. Debe cubrir el
	// TTL máximo de un refresh token (la variante remember-me).
	RetainFor time.Duration
}

type logoutService struct {
	deps LogoutDeps
}

// NewLogoutService creates a new logout service.
func NewLogoutService(deps LogoutDeps) LogoutService {
	return &logoutService{deps: deps}
}

// Logout revoca un refresh token (idempotente). Se revoca el hash sin
// validar el token: revocar un token ya inválido es inofensivo y mantiene
// la semántica idempotente.
func (s *logoutService) Logout(ctx context.Context, in dto.LogoutRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
	)

	raw := strings.TrimSpace(in.RefreshToken)
	if raw == "" {
		return ErrMissingFields
	}

	s.deps.Revocations.Revoke(raw, s.deps.RetainFor)
	log.Info("logout successful")
	return nil
}
