// Package token implementa la emisión y validación de tokens firmados
// (opcionalmente cifrados) para los tres tipos de sesión: access, refresh
// y permission. Cada tipo usa su propio secreto, TTL, issuer y audience.
package token

// RoleType es el tipo de rol que viaja dentro del access token.
type RoleType string

const (
	RoleUser       RoleType = "user"
	RoleAdmin      RoleType = "admin"
	RoleSuperAdmin RoleType = "super_admin"
)

// Valid indica si el rol es uno de los conocidos.
func (r RoleType) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// LoginFrom identifica el origen del login.
type LoginFrom string

const (
	LoginFromCredential LoginFrom = "credential"
	LoginFromGoogle     LoginFrom = "social-google"
	LoginFromApple      LoginFrom = "social-apple"
)

// PermissionGrant es un permiso tal como viaja en el wire: un subject y una
// lista de códigos de acción numéricos separados por coma (ej: "2,3,5").
// El mapeo código→acción vive en internal/ability.
type PermissionGrant struct {
	Subject string `json:"subject"`
	Action  string `json:"action"`
}

// AccessPayload son las claims de identidad del access token.
// Invariante: Permissions nunca se muta después de la emisión; un cambio de
// permisos requiere emitir un token nuevo (re-login o refresh).
type AccessPayload struct {
	SubjectID   string            `json:"subjectId"`
	Email       string            `json:"email"`
	RoleID      string            `json:"roleId"`
	RoleType    RoleType          `json:"roleType"`
	LoginFrom   LoginFrom         `json:"loginFrom"`
	LoginAt     int64             `json:"loginAt"`
	Permissions []PermissionGrant `json:"permissions"`
}

// RefreshPayload son las claims del refresh token.
// Deliberadamente NO incluye permisos: el access token obtenido vía refresh
// debe re-derivarse del permission store vigente, nunca de un snapshot viejo.
type RefreshPayload struct {
	SubjectID string    `json:"subjectId"`
	LoginFrom LoginFrom `json:"loginFrom"`
	LoginAt   int64     `json:"loginAt"`
}

// PermissionPayload son las claims del permission token: el snapshot de
// permisos efectivos del caller, con vida mucho más corta que el access token.
type PermissionPayload struct {
	SubjectID   string            `json:"subjectId"`
	Permissions []PermissionGrant `json:"permissions"`
}
