// Package oauth contiene DTOs para endpoints de autorización.
package oauth

// ResolveRequest representa la solicitud de resolución de scopes para un client.
type ResolveRequest struct {
	UserID   string   `json:"user_id"`
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
}

// ResolveResponse representa el resultado de la resolución.
// Approved=false indica que queda al menos un scope sin decisión registrada.
type ResolveResponse struct {
	Approved bool     `json:"approved"`
	Scopes   []string `json:"scopes"`
}
