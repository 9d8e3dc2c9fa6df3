package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	svc "github.com/dropDatabas3/guardia/internal/http/services/auth"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
)

// LogoutController maneja la revocación de refresh tokens.
type LogoutController struct {
	service svc.LogoutService
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout maneja POST /v1/auth/logout
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.Logout(ctx, req); err != nil {
		log.Debug("logout failed", logger.Err(err))
		if errors.Is(err, svc.ErrMissingFields) {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("refresh_token es obligatorio"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
