package repository

import "context"

// AutoApprove es la regla de auto-aprobación configurada por el admin
// para un client. Si All es true, todo scope se aprueba implícitamente.
// Scopes admite nombres exactos o patrones glob donde `*` matchea
// exactamente un segmento delimitado por puntos.
type AutoApprove struct {
	All    bool
	Scopes []string
}

// ClientScopeConfig es la configuración de scopes de un client OAuth.
type ClientScopeConfig struct {
	ClientID    string
	Scopes      []string
	AutoApprove AutoApprove
}

// ClientConfigStore provee la configuración de scopes por client.
type ClientConfigStore interface {
	// Get retorna la configuración del client.
	// Retorna ErrNotFound si el client no existe.
	Get(ctx context.Context, clientID string) (*ClientScopeConfig, error)
}
