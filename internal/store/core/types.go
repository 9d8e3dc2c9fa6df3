// Package core define los tipos de dominio y el contrato del user store.
// El core de autorización solo lo consume en login/refresh para re-derivar
// el snapshot de permisos vigente.
package core

import (
	"context"
	"time"

	"github.com/dropDatabas3/guardia/internal/token"
)

// PermissionRecord es un permiso tal como vive en el store: subject y
// códigos de acción en el formato wire ("2,3,5").
type PermissionRecord struct {
	Subject     string
	ActionCodes string
}

// Grants convierte los records al shape que viaja en claims.
func Grants(records []PermissionRecord) []token.PermissionGrant {
	out := make([]token.PermissionGrant, 0, len(records))
	for _, r := range records {
		out = append(out, token.PermissionGrant{Subject: r.Subject, Action: r.ActionCodes})
	}
	return out
}

// User es la vista del usuario que el core necesita para emitir tokens.
type User struct {
	ID           string
	Email        string
	PasswordHash string // PHC argon2id; nunca viaja en claims
	RoleID       string
	RoleType     token.RoleType
	Permissions  []PermissionRecord
	CreatedAt    time.Time
	DisabledAt   *time.Time
}

// Disabled indica si la cuenta está deshabilitada.
func (u *User) Disabled() bool { return u.DisabledAt != nil }

// UserStore es el contrato de lookup de usuarios + permisos.
type UserStore interface {
	// GetUserByEmail retorna el usuario con sus permisos aplanados.
	// ErrNotFound si no existe.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID ídem por ID. Usado en el exchange refresh→access.
	GetUserByID(ctx context.Context, id string) (*User, error)
}
