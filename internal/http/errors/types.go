package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Error original (causa), útil para logs
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
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

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Las credenciales proporcionadas son inválidas.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrAccountLocked = &AppError{
		Code:       "ACCOUNT_LOCKED",
		Message:    "La cuenta está temporalmente bloqueada por intentos fallidos.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrProviderUnavailable = &AppError{
		Code:       "PROVIDER_UNAVAILABLE",
		Message:    "El proveedor de identidad no está disponible para esta zona.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	ErrUnknownClient = &AppError{
		Code:       "UNKNOWN_CLIENT",
		Message:    "El client indicado no está registrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Método HTTP no permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Error interno del servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
