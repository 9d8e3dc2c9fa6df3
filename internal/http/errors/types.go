package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Error original (causa), útil para logs, no se expone al cliente
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matchea por Code, de modo que errors.Is reconoce las copias que
// producen WithDetail/WithCause contra el error base del catálogo.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New crea un nuevo AppError.
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// FromError intenta convertir un error genérico en un AppError.
// Si no es un AppError, devuelve un error interno genérico conservando la causa.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA del error para no mutar las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa).
// Devuelve una COPIA del error.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Faltan campos requeridos en la solicitud.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ---------------------------------------------------------------------------------
// 401 Unauthorized - Autenticación
// ---------------------------------------------------------------------------------

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "No autorizado. Se requiere autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No se proporcionó token de autenticación.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMalformed = &AppError{
		Code:       "TOKEN_MALFORMED",
		Message:    "El token no tiene el formato esperado.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenSignatureInvalid = &AppError{
		Code:       "TOKEN_SIGNATURE_INVALID",
		Message:    "La firma del token es inválida.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "El token ha expirado.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenNotYetValid = &AppError{
		Code:       "TOKEN_NOT_YET_VALID",
		Message:    "El token aún no es válido.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrPermissionTokenMissing = &AppError{
		Code:       "PERMISSION_TOKEN_MISSING",
		Message:    "No se proporcionó el token de permisos.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrPermissionTokenInvalid = &AppError{
		Code:       "PERMISSION_TOKEN_INVALID",
		Message:    "El token de permisos es inválido.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrBasicTokenMissing = &AppError{
		Code:       "BASIC_TOKEN_MISSING",
		Message:    "No se proporcionaron credenciales Basic.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrBasicTokenInvalid = &AppError{
		Code:       "BASIC_TOKEN_INVALID",
		Message:    "Las credenciales Basic son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ---------------------------------------------------------------------------------
// 403 Forbidden - Autorización
// ---------------------------------------------------------------------------------

var (
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "No tiene permisos para realizar esta acción.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrAbilityDenied = &AppError{
		Code:       "ABILITY_DENIED",
		Message:    "El token no otorga las capacidades requeridas por la operación.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrRoleMismatch = &AppError{
		Code:       "ROLE_MISMATCH",
		Message:    "El rol del sujeto no está entre los roles permitidos.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrPermissionTokenNotYours = &AppError{
		Code:       "PERMISSION_TOKEN_NOT_YOURS",
		Message:    "El token de permisos no pertenece al sujeto autenticado.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 / 405
// ---------------------------------------------------------------------------------

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// ---------------------------------------------------------------------------------
// 429 / 500
// ---------------------------------------------------------------------------------

var (
	ErrTooManyRequests = &AppError{
		Code:       "TOO_MANY_REQUESTS",
		Message:    "Demasiadas solicitudes. Intente nuevamente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	// ErrRoleGuardEmpty indica una operación declarada con guard de rol pero
	// sin roles: un bug de configuración del deployment, no un error del caller.
	ErrRoleGuardEmpty = &AppError{
		Code:       "ROLE_GUARD_EMPTY",
		Message:    "La operación declara un guard de rol sin roles configurados.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno. Intente nuevamente más tarde.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
