package auth

import (
	"context"
	"strings"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/session"
	"github.com/dropDatabas3/guardia/internal/token"
)

// IntrospectDeps contains dependencies for the introspection service.
type IntrospectDeps struct {
	Access      *token.AccessService
	Refresh     *token.RefreshService
	Permission  *token.PermissionService
	Revocations *session.RevocationStore
}

type introspectService struct {
	deps IntrospectDeps
}

// NewIntrospectService creates a new introspection service.
func NewIntrospectService(deps IntrospectDeps) IntrospectService {
	return &introspectService{deps: deps}
}

// Introspect valida el token según el kind pedido. Responde active=false ante
// cualquier falla sin distinguir la causa: el endpoint está pensado para
// clientes confidenciales y no debe filtrar detalle de validación.
func (s *introspectService) Introspect(_ context.Context, in dto.IntrospectRequest) *dto.IntrospectResponse {
	raw := strings.TrimSpace(in.Token)
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if raw == "" {
		return &dto.IntrospectResponse{Active: false}
	}

	switch kind {
	case "", "access":
		if p, err := s.deps.Access.DecodePayload(raw); err == nil {
			return &dto.IntrospectResponse{Active: true, Kind: "access", SubjectID: p.SubjectID}
		}
	case "refresh":
		p, err := s.deps.Refresh.DecodePayload(raw)
		if err == nil && (s.deps.Revocations == nil || !s.deps.Revocations.IsRevoked(raw)) {
			return &dto.IntrospectResponse{Active: true, Kind: "refresh", SubjectID: p.SubjectID}
		}
	case "permission":
		if p, err := s.deps.Permission.DecodePayload(raw); err == nil {
			return &dto.IntrospectResponse{Active: true, Kind: "permission", SubjectID: p.SubjectID}
		}
	}

	return &dto.IntrospectResponse{Active: false}
}
