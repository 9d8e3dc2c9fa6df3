package auth

// LogoutRequest represents the request body for POST /v1/auth/logout
type LogoutRequest struct {
	// RefreshToken is the token to revoke. Revocation is idempotent.
	RefreshToken string `json:"refresh_token"`
}
