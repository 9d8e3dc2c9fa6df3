package auth

// IntrospectRequest represents the request body for POST /v1/introspect.
// Kind selects which verifier to use: "access", "refresh" or "permission".
type IntrospectRequest struct {
	Token string `json:"token"`
	Kind  string `json:"kind"`
}

// IntrospectResponse represents the response body for POST /v1/introspect.
// Active follows RFC 7662 semantics: false means invalid, expired or revoked,
// without distinguishing why.
type IntrospectResponse struct {
	Active    bool   `json:"active"`
	Kind      string `json:"kind,omitempty"`
	SubjectID string `json:"subjectId,omitempty"`
}
