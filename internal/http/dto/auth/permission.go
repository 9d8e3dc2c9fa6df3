package auth

// PermissionTokenResponse represents the response body for
// POST /v1/auth/permission-token
type PermissionTokenResponse struct {
	PermissionToken string `json:"permission_token"`
	ExpiresIn       int64  `json:"expires_in"`
}
