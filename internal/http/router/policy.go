package router

import (
	"github.com/dropDatabas3/guardia/internal/ability"
	"github.com/dropDatabas3/guardia/internal/authz"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Nombres de operación. Son las keys de la policy y el label de métricas,
// no dependen del path HTTP.
const (
	OpMe              = "me.read"
	OpPermissionToken = "auth.permission_token"
	OpOrdersRead      = "orders.read"
	OpOrdersCreate    = "orders.create"
	OpOrdersUpdate    = "orders.update"
	OpOrdersDelete    = "orders.delete"
	OpOrdersExport    = "orders.export"
)

// DefaultPolicy declara qué exige cada operación. Una operación ausente
// requiere solo autenticación.
func DefaultPolicy() authz.Policy {
	return authz.Policy{
		OpOrdersRead: {
			Capabilities: []ability.Rule{authz.Cap(ability.ActionRead, "order")},
		},
		OpOrdersCreate: {
			Capabilities: []ability.Rule{authz.Cap(ability.ActionCreate, "order")},
		},
		OpOrdersUpdate: {
			Capabilities: []ability.Rule{authz.Cap(ability.ActionUpdate, "order")},
		},
		OpOrdersDelete: {
			// Destructivo: además del permiso exige el permission token de
			// elevación en su header propio.
			Capabilities:    []ability.Rule{authz.Cap(ability.ActionDelete, "order")},
			PermissionToken: true,
		},
		OpOrdersExport: {
			Capabilities: []ability.Rule{authz.Cap(ability.ActionExport, "order")},
			RoleGuard:    true,
			Roles:        []token.RoleType{token.RoleAdmin},
		},
	}
}
