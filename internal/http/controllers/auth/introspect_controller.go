package auth

import (
	"encoding/json"
	"net/http"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	svc "github.com/dropDatabas3/guardia/internal/http/services/auth"
)

// IntrospectController maneja la introspección de tokens para clientes
// confidenciales. La ruta se protege con el basic guard, no con bearer.
type IntrospectController struct {
	service svc.IntrospectService
}

// NewIntrospectController crea un nuevo controller de introspección.
func NewIntrospectController(service svc.IntrospectService) *IntrospectController {
	return &IntrospectController{service: service}
}

// Introspect maneja POST /v1/introspect
func (c *IntrospectController) Introspect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.IntrospectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	writeJSON(w, http.StatusOK, c.service.Introspect(r.Context(), req))
}
