package auth

import (
	"context"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/metrics"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/token"
)

// PermissionDeps contains dependencies for the permission token service.
type PermissionDeps struct {
	Permission *token.PermissionService
}

type permissionTokenService struct {
	deps PermissionDeps
}

// NewPermissionTokenService creates a new permission token service.
func NewPermissionTokenService(deps PermissionDeps) PermissionTokenService {
	return &permissionTokenService{deps: deps}
}

// Issue emite un permission token con el snapshot de permisos del access
// token del caller. No re-consulta el store: el permission token es una
// re-afirmación de corta vida de lo que el caller ya probó tener.
func (s *permissionTokenService) Issue(ctx context.Context, claims *token.AccessPayload) (*dto.PermissionTokenResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.permission"),
		logger.Op("Issue"),
	)

	pt, err := s.deps.Permission.Create(token.PermissionPayload{
		SubjectID:   claims.SubjectID,
		Permissions: claims.Permissions,
	})
	if err != nil {
		log.Error("permission token issuance failed", logger.Err(err))
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues("permission").Inc()
	return &dto.PermissionTokenResponse{
		PermissionToken: pt,
		ExpiresIn:       int64(s.deps.Permission.TTL().Seconds()),
	}, nil
}
