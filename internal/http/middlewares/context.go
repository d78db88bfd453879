package middlewares

import "context"

type ctxKey string

const (
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
// Retorna "" si el middleware de request ID no fue aplicado.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
