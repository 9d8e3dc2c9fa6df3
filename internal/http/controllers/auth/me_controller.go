package auth

import (
	"net/http"

	"github.com/dropDatabas3/guardia/internal/authz"
	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
)

// MeController handles GET /v1/me.
type MeController struct{}

// NewMeController creates a new me controller.
func NewMeController() *MeController {
	return &MeController{}
}

// Me devuelve las claims del caller autenticado tal como viajan en su access
// token. No consulta el store: es un espejo del token.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MeController.Me"))

	id := authz.IdentityFrom(ctx)
	if id == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	claims := id.Claims
	writeJSON(w, http.StatusOK, dto.MeResponse{
		SubjectID:   claims.SubjectID,
		Email:       claims.Email,
		RoleID:      claims.RoleID,
		RoleType:    claims.RoleType,
		LoginFrom:   claims.LoginFrom,
		LoginAt:     claims.LoginAt,
		Permissions: claims.Permissions,
	})

	log.Debug("claims returned")
}
