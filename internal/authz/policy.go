// Package authz implementa el guard chain: la secuencia ordenada de checks
// de autenticación/autorización que un request atraviesa antes de llegar a
// la lógica de negocio.
package authz

import (
	"github.com/dropDatabas3/guardia/internal/ability"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Requirement declara qué exige una operación protegida.
// El wiring es data-driven: una tabla explícita de operación→requirement,
// sin metadata por reflection.
type Requirement struct {
	// Capabilities son las capacidades requeridas, evaluadas conjuntivamente:
	// todas deben estar presentes en el RuleSet del caller.
	Capabilities []ability.Rule

	// RoleGuard activa el check de rol predefinido. Declararlo con Roles
	// vacío es un error de configuración (500), no un fallo del caller.
	RoleGuard bool
	Roles     []token.RoleType

	// PermissionToken exige el token de elevación en el header dedicado,
	// con subject igual al del access token autenticado.
	PermissionToken bool
}

// Policy mapea identificadores de operación a sus requirements.
type Policy map[string]Requirement

// Lookup retorna el requirement de una operación. Una operación no declarada
// solo exige autenticación (requirement vacío).
func (p Policy) Lookup(operation string) Requirement {
	if p == nil {
		return Requirement{}
	}
	return p[operation]
}

// Cap es un helper de construcción para declarar capacidades.
func Cap(action ability.Action, subject string) ability.Rule {
	return ability.Rule{Action: action, Subject: subject}
}
