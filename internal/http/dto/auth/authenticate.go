// Package auth contiene DTOs para endpoints de autenticación.
package auth

// AuthenticateRequest representa la solicitud de autenticación contra una zona.
// Origin selecciona el proveedor ("uaa" para password local, "ldap", "saml", ...).
// Para proveedores externos se usa Assertion en lugar de Username/Password.
type AuthenticateRequest struct {
	Origin    string `json:"origin"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Assertion string `json:"assertion,omitempty"`
}

// AuthenticateResponse representa la respuesta exitosa de autenticación.
type AuthenticateResponse struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Origin      string   `json:"origin"`
	ZoneID      string   `json:"zone_id"`
	ExternalID  string   `json:"external_id,omitempty"`
	GivenName   string   `json:"given_name,omitempty"`
	FamilyName  string   `json:"family_name,omitempty"`
	Authorities []string `json:"authorities"`
	Verified    bool     `json:"verified"`
}
