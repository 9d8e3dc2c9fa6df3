package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/metrics"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/session"
	"github.com/dropDatabas3/guardia/internal/store/core"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Refresh errors
var (
	ErrRefreshMissingToken = fmt.Errorf("missing refresh token")
	ErrRefreshRevoked      = fmt.Errorf("refresh token revoked")
	ErrRefreshUnknownUser  = fmt.Errorf("user no longer exists")
)

// RefreshDeps contains dependencies for the refresh service.
type RefreshDeps struct {
	Users       core.UserStore
	Access      *token.AccessService
	Refresh     *token.RefreshService
	Revocations *session.RevocationStore
}

type refreshService struct {
	deps RefreshDeps
}

// NewRefreshService creates a new refresh service.
func NewRefreshService(deps RefreshDeps) RefreshService {
	return &refreshService{deps: deps}
}

// Refresh valida el refresh token y re-deriva el access token del store
// vigente. Los errores del codec se propagan tipados para que el controller
// los traduzca al subkind HTTP correcto.
func (s *refreshService) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Refresh"),
	)

	raw := strings.TrimSpace(in.RefreshToken)
	if raw == "" {
		return nil, ErrRefreshMissingToken
	}

	claims, err := s.deps.Refresh.DecodePayload(raw)
	if err != nil {
		metrics.TokenDecodeFailures.WithLabelValues("refresh", err.Error()).Inc()
		return nil, err
	}
	if s.deps.Revocations != nil && s.deps.Revocations.IsRevoked(raw) {
		log.Debug("refresh token revoked", logger.SubjectID(claims.SubjectID))
		return nil, ErrRefreshRevoked
	}

	// Snapshot de permisos vigente: nunca se copia del token viejo.
	user, err := s.deps.Users.GetUserByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrRefreshUnknownUser
		}
		log.Warn("user lookup failed", logger.Err(err))
		return nil, err
	}
	if user.Disabled() {
		return nil, ErrAccountDisabled
	}

	access, err := s.deps.Access.Create(token.AccessPayload{
		SubjectID:   user.ID,
		Email:       user.Email,
		RoleID:      user.RoleID,
		RoleType:    user.RoleType,
		LoginFrom:   claims.LoginFrom,
		LoginAt:     claims.LoginAt,
		Permissions: core.Grants(user.Permissions),
	})
	if err != nil {
		log.Error("access token issuance failed", logger.Err(err))
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues("access").Inc()
	log.Info("refresh successful", logger.SubjectID(user.ID))

	return &dto.RefreshResult{
		AccessToken: access,
		ExpiresIn:   int64(s.deps.Access.TTL().Seconds()),
	}, nil
}
