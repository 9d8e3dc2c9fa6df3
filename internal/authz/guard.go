package authz

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/guardia/internal/ability"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	"github.com/dropDatabas3/guardia/internal/metrics"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/token"
)

// DefaultPermissionHeader es el header del permission token si la config
// no define otro.
const DefaultPermissionHeader = "X-Permission-Token"

// Guard evalúa el chain de checks para cada request. Stateless: toda la
// configuración (servicios de token, policy, header) es inmutable después
// de construirlo.
type Guard struct {
	access           *token.AccessService
	permission       *token.PermissionService
	policy           Policy
	permissionHeader string
}

// NewGuard construye el guard. permissionHeader vacío usa el default.
func NewGuard(access *token.AccessService, permission *token.PermissionService, policy Policy, permissionHeader string) *Guard {
	if permissionHeader == "" {
		permissionHeader = DefaultPermissionHeader
	}
	return &Guard{
		access:           access,
		permission:       permission,
		policy:           policy,
		permissionHeader: permissionHeader,
	}
}

// Evaluate corre el chain completo para una operación. Estrictamente
// ordenado y con short-circuit en el primer fallo:
//
//  1. Autenticación del bearer token (firma + ventana temporal).
//  2. Short-circuit por rol: super_admin pasa directo a Allowed.
//  3. Check de rol predefinido, solo si la operación lo declara.
//  4. Check de capacidades (conjuntivo).
//  5. Cross-check del permission token, solo si la operación lo declara:
//     su subject debe coincidir con el sujeto autenticado.
//
// Retorna la identidad resuelta o un *httperrors.AppError con la razón.
// bearer y permissionToken son los valores crudos de los headers.
func (g *Guard) Evaluate(operation, bearer, permissionToken string) (*Identity, error) {
	// 1. Autenticación
	if bearer == "" {
		return nil, httperrors.ErrTokenMissing
	}
	claims, err := g.access.DecodePayload(bearer)
	if err != nil {
		metrics.TokenDecodeFailures.WithLabelValues("access", err.Error()).Inc()
		return nil, mapTokenError(err)
	}

	rules := ability.Build(claims.Permissions)
	id := &Identity{Claims: claims, Rules: rules}

	// 2. Short-circuit super admin: satisface cualquier check, incluso con
	// lista de permisos vacía.
	if claims.RoleType == token.RoleSuperAdmin {
		return id, nil
	}

	req := g.policy.Lookup(operation)

	// 3. Rol predefinido (opcional por operación)
	if req.RoleGuard {
		if len(req.Roles) == 0 {
			// Bug de deployment, no culpa del caller.
			return nil, httperrors.ErrRoleGuardEmpty
		}
		if !roleAllowed(claims.RoleType, req.Roles) {
			return nil, httperrors.ErrRoleMismatch
		}
	}

	// 4. Capacidades
	if !rules.Check(req.Capabilities) {
		return nil, httperrors.ErrAbilityDenied
	}

	// 5. Permission token (opcional por operación)
	if req.PermissionToken {
		if strings.TrimSpace(permissionToken) == "" {
			return nil, httperrors.ErrPermissionTokenMissing
		}
		pc, err := g.permission.DecodePayload(permissionToken)
		if err != nil {
			metrics.TokenDecodeFailures.WithLabelValues("permission", err.Error()).Inc()
			return nil, httperrors.ErrPermissionTokenInvalid.WithCause(err)
		}
		if pc.SubjectID != claims.SubjectID {
			return nil, httperrors.ErrPermissionTokenNotYours
		}
	}

	return id, nil
}

// Require retorna un middleware que corre el chain para la operación dada,
// inyecta la identidad en el contexto y corta con el error tipado si falla.
func (g *Guard) Require(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := g.Evaluate(operation, BearerFromRequest(r), r.Header.Get(g.permissionHeader))
			if err != nil {
				appErr := httperrors.FromError(err)
				metrics.GuardDecisions.WithLabelValues(operation, appErr.Code).Inc()
				logger.From(r.Context()).Debug("guard denied",
					logger.Operation(operation), logger.Decision(appErr.Code))
				if appErr.HTTPStatus == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				}
				httperrors.WriteError(w, appErr)
				return
			}

			metrics.GuardDecisions.WithLabelValues(operation, "allowed").Inc()
			ctx := WithIdentity(r.Context(), id)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.SubjectID(id.Claims.SubjectID),
				logger.Role(string(id.Claims.RoleType)),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerFromRequest extrae el token del header Authorization: Bearer.
// Retorna "" si no está presente o no tiene el esquema esperado.
func BearerFromRequest(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

func roleAllowed(role token.RoleType, allowed []token.RoleType) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// mapTokenError traduce los errores tipados del codec a errores HTTP.
// Cada subkind conserva un code estable y machine-readable.
func mapTokenError(err error) *httperrors.AppError {
	switch err {
	case token.ErrExpired:
		return httperrors.ErrTokenExpired
	case token.ErrNotYetValid:
		return httperrors.ErrTokenNotYetValid
	case token.ErrSignatureInvalid:
		return httperrors.ErrTokenSignatureInvalid
	case token.ErrMalformed:
		return httperrors.ErrTokenMalformed
	default:
		return httperrors.ErrUnauthorized.WithCause(err)
	}
}
