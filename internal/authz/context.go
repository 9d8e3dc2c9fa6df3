package authz

import (
	"context"

	"github.com/dropDatabas3/guardia/internal/ability"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Identity es el resultado de un guard chain exitoso: las claims
// autenticadas y el RuleSet derivado, adjuntos al contexto del request
// para uso downstream. Ningún paso del chain tiene otros efectos.
type Identity struct {
	Claims *token.AccessPayload
	Rules  *ability.RuleSet
}

type identityKey struct{}

// WithIdentity inyecta la identidad resuelta en el contexto.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extrae la identidad del contexto. Retorna nil si el request
// no pasó por el guard chain.
func IdentityFrom(ctx context.Context) *Identity {
	if v := ctx.Value(identityKey{}); v != nil {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

// SubjectIDFrom es un atajo para el subject autenticado.
func SubjectIDFrom(ctx context.Context) string {
	if id := IdentityFrom(ctx); id != nil && id.Claims != nil {
		return id.Claims.SubjectID
	}
	return ""
}
