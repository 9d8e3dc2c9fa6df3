package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	svc "github.com/dropDatabas3/guardia/internal/http/services/auth"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/token"
)

// RefreshController maneja el exchange refresh→access.
type RefreshController struct {
	service svc.RefreshService
}

// NewRefreshController crea un nuevo controller de refresh.
func NewRefreshController(service svc.RefreshService) *RefreshController {
	return &RefreshController{service: service}
}

// Refresh maneja POST /v1/auth/refresh
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Refresh(ctx, req)
	if err != nil {
		log.Debug("refresh failed", logger.Err(err))
		writeRefreshError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefreshResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
	})
}

func writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrRefreshMissingToken):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("refresh_token es obligatorio"))

	case errors.Is(err, token.ErrExpired):
		httperrors.WriteError(w, httperrors.ErrTokenExpired)

	case errors.Is(err, token.ErrNotYetValid):
		httperrors.WriteError(w, httperrors.ErrTokenNotYetValid)

	case errors.Is(err, token.ErrSignatureInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenSignatureInvalid)

	case errors.Is(err, token.ErrMalformed):
		httperrors.WriteError(w, httperrors.ErrTokenMalformed)

	case errors.Is(err, svc.ErrRefreshRevoked),
		errors.Is(err, svc.ErrRefreshUnknownUser),
		errors.Is(err, svc.ErrAccountDisabled):
		// Los tres colapsan en 401 genérico: el token ya no sirve y el
		// detalle no le incumbe al caller.
		httperrors.WriteError(w, httperrors.ErrUnauthorized)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
