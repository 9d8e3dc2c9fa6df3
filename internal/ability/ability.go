// Package ability deriva reglas de capacidad (action, subject) a partir de
// las claims de permisos de un token validado, y evalúa si un set de
// capacidades requeridas está satisfecho.
//
// Es una estructura de datos chica y cerrada, no un DSL de reglas: lo único
// que el sistema usa en la práctica es membresía conjuntiva sobre pares
// (action, subject).
package ability

import (
	"strconv"
	"strings"

	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Action es una acción sobre un recurso protegido.
type Action string

const (
	// ActionManage es el wildcard: implica todas las demás acciones.
	ActionManage Action = "manage"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

// SubjectAll es el subject centinela que cubre todos los recursos.
const SubjectAll = "all"

// Códigos numéricos de acción en el wire. Fijados una vez; cambiarlos rompe
// la compatibilidad entre emisor y verificador de tokens.
const (
	codeManage = 0
	codeRead   = 1
	codeCreate = 2
	codeUpdate = 3
	codeDelete = 4
	codeExport = 5
	codeImport = 6
)

// actionFromCode mapea un código de wire a su Action.
// Códigos desconocidos degradan a read: nunca escalan privilegio, pero se
// loguean porque pueden indicar un desfase de versión emisor/verificador.
func actionFromCode(code int) (Action, bool) {
	switch code {
	case codeManage:
		return ActionManage, true
	case codeRead:
		return ActionRead, true
	case codeCreate:
		return ActionCreate, true
	case codeUpdate:
		return ActionUpdate, true
	case codeDelete:
		return ActionDelete, true
	case codeExport:
		return ActionExport, true
	case codeImport:
		return ActionImport, true
	}
	return ActionRead, false
}

// Rule es un par (acción, subject) permitido.
type Rule struct {
	Action  Action
	Subject string
}

// RuleSet es el set aplanado de reglas de un caller.
// Inmutable después de Build; seguro para lectura concurrente.
type RuleSet struct {
	rules map[Rule]struct{}
	// universal indica manage sobre all: permite todo incondicionalmente.
	universal bool
}

// Build aplana los permission grants de un token en un RuleSet.
// El campo Action de cada grant es una lista de códigos numéricos separados
// por coma (ej: "2,3,5").
func Build(grants []token.PermissionGrant) *RuleSet {
	rs := &RuleSet{rules: make(map[Rule]struct{})}
	for _, g := range grants {
		subject := strings.TrimSpace(g.Subject)
		if subject == "" {
			continue
		}
		for _, part := range strings.Split(g.Action, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			code, err := strconv.Atoi(part)
			if err != nil {
				logger.Named("ability").Warn("código de acción no numérico, degradado a read",
					logger.String("action_code", part), logger.String("subject", subject))
				rs.add(ActionRead, subject)
				continue
			}
			act, known := actionFromCode(code)
			if !known {
				logger.Named("ability").Warn("código de acción desconocido, degradado a read",
					logger.Int("action_code", code), logger.String("subject", subject))
			}
			if act == ActionManage && subject == SubjectAll {
				rs.universal = true
			}
			rs.add(act, subject)
		}
	}
	return rs
}

func (rs *RuleSet) add(a Action, subject string) {
	rs.rules[Rule{Action: a, Subject: subject}] = struct{}{}
}

// Universal indica si el set es el centinela permite-todo (manage sobre all).
func (rs *RuleSet) Universal() bool { return rs.universal }

// Len retorna la cantidad de reglas explícitas.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Can evalúa una capacidad individual: la regla exacta, o manage sobre el
// mismo subject, o el centinela universal.
func (rs *RuleSet) Can(a Action, subject string) bool {
	if rs.universal {
		return true
	}
	if _, ok := rs.rules[Rule{Action: a, Subject: subject}]; ok {
		return true
	}
	if _, ok := rs.rules[Rule{Action: ActionManage, Subject: subject}]; ok {
		return true
	}
	return false
}

// Check evalúa un set requerido de forma conjuntiva: TODAS las capacidades
// deben estar satisfechas. Una operación puede requerir varias (ej:
// read-on-user Y read-on-activity-log).
func (rs *RuleSet) Check(required []Rule) bool {
	for _, r := range required {
		if !rs.Can(r.Action, r.Subject) {
			return false
		}
	}
	return true
}
