package auth

// LoginRequest represents the request body for POST /v1/auth/login
type LoginRequest struct {
	// Email is the account email (case-insensitive).
	Email string `json:"email"`
	// Password is the plaintext credential, verified against the stored hash.
	Password string `json:"password"`
	// Remember requests the long-lived refresh token variant.
	Remember bool `json:"remember,omitempty"`
}

// LoginResult is the internal outcome of a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// LoginResponse represents the response body for POST /v1/auth/login
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}
