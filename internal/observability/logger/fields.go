package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar — HTTP

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

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Campos estándar — negocio

// ZoneID crea un campo para el ID de la zona (tenant).
func ZoneID(v string) zap.Field {
	return zap.String("zone_id", v)
}

// Origin crea un campo para la clave del identity provider.
func Origin(v string) zap.Field {
	return zap.String("origin", v)
}

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// Username crea un campo para el username (usar con cuidado en prod).
func Username(v string) zap.Field {
	return zap.String("username", v)
}

// ClientID crea un campo para el ID del cliente OAuth.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// Scope crea un campo para un scope OAuth.
func Scope(v string) zap.Field {
	return zap.String("scope", v)
}

// Campos estándar — sistema

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (handler, service, repository).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}

// Any crea un campo de tipo arbitrario.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
