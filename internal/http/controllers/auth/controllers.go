// Package auth contiene los controllers de autenticación.
package auth

import (
	"encoding/json"
	"net/http"

	svc "github.com/dropDatabas3/guardia/internal/http/services/auth"
)

const (
	maxBodySize     = 64 * 1024 // 64KB
	contentTypeJSON = "application/json; charset=utf-8"
)

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login      *LoginController
	Refresh    *RefreshController
	Logout     *LogoutController
	Permission *PermissionController
	Me         *MeController
	Introspect *IntrospectController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Login:      NewLoginController(s.Login),
		Refresh:    NewRefreshController(s.Refresh),
		Logout:     NewLogoutController(s.Logout),
		Permission: NewPermissionController(s.Permission),
		Me:         NewMeController(),
		Introspect: NewIntrospectController(s.Introspect),
	}
}

// writeJSON escribe la respuesta con los headers de seguridad estándar para
// endpoints que devuelven tokens.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
