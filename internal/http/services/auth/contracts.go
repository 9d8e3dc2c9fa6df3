// Package auth contiene contracts para servicios de autenticación.
package auth

import (
	"context"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/token"
)

// LoginService define las operaciones de login.
type LoginService interface {
	// LoginPassword autentica un usuario con email/password y emite el par
	// access + refresh.
	LoginPassword(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error)
}

// RefreshService define el exchange refresh→access.
type RefreshService interface {
	// Refresh valida el refresh token y emite un access token nuevo con el
	// snapshot de permisos vigente del store.
	Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResult, error)
}

// LogoutService define la revocación de refresh tokens.
type LogoutService interface {
	// Logout revoca un refresh token. Idempotente.
	Logout(ctx context.Context, in dto.LogoutRequest) error
}

// PermissionTokenService emite permission tokens de elevación para un caller
// ya autenticado.
type PermissionTokenService interface {
	// Issue emite un permission token con los permisos de las claims dadas.
	Issue(ctx context.Context, claims *token.AccessPayload) (*dto.PermissionTokenResponse, error)
}

// IntrospectService valida tokens en nombre de clientes confidenciales.
type IntrospectService interface {
	// Introspect reporta si el token está activo. Nunca retorna error: un
	// token inválido es active=false, no un fallo.
	Introspect(ctx context.Context, in dto.IntrospectRequest) *dto.IntrospectResponse
}
