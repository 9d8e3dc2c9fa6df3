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

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.LoginPassword(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken:  result.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    result.ExpiresIn,
		RefreshToken: result.RefreshToken,
	})
}

// ─── Helpers ───

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email y password son obligatorios"))

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, svc.ErrAccountDisabled):
		// Mismo error que credenciales inválidas: no filtrar estado de cuenta.
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
