package auth

import (
	"net/http"

	"github.com/dropDatabas3/guardia/internal/authz"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	svc "github.com/dropDatabas3/guardia/internal/http/services/auth"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
)

// PermissionController emite permission tokens de elevación.
type PermissionController struct {
	service svc.PermissionTokenService
}

// NewPermissionController crea un nuevo controller de permission tokens.
func NewPermissionController(service svc.PermissionTokenService) *PermissionController {
	return &PermissionController{service: service}
}

// Issue maneja POST /v1/auth/permission-token
// Requiere autenticación: la identidad viene del contexto, puesta ahí por el
// guard de la ruta.
func (c *PermissionController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PermissionController.Issue"))

	id := authz.IdentityFrom(ctx)
	if id == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.service.Issue(ctx, id.Claims)
	if err != nil {
		log.Error("permission token issuance failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
