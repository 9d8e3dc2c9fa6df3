package auth

// RefreshRequest represents the request body for POST /v1/auth/refresh
type RefreshRequest struct {
	// RefreshToken is the token to exchange for a fresh access token.
	RefreshToken string `json:"refresh_token"`
}

// RefreshResult is the internal outcome of a refresh exchange.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// RefreshResponse represents the response body for POST /v1/auth/refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
