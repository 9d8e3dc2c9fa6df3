package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - AUTORIZACIÓN
// =================================================================================

// SubjectID crea un campo para el ID del sujeto autenticado.
func SubjectID(v string) zap.Field {
	return zap.String("subject_id", v)
}

// Role crea un campo para el tipo de rol del sujeto.
func Role(v string) zap.Field {
	return zap.String("role_type", v)
}

// TokenKind crea un campo para el tipo de token (access/refresh/permission).
func TokenKind(v string) zap.Field {
	return zap.String("token_kind", v)
}

// Operation crea un campo para el identificador de operación protegida.
func Operation(v string) zap.Field {
	return zap.String("operation", v)
}

// Decision crea un campo para el veredicto del guard chain.
func Decision(v string) zap.Field {
	return zap.String("decision", v)
}

// ClientID crea un campo para el ID del cliente service-to-service.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// Email crea un campo para el email (usar con cuidado en prod).
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
