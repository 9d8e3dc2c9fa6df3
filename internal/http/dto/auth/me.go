package auth

import "github.com/dropDatabas3/guardia/internal/token"

// MeResponse represents the response body for GET /v1/me. It mirrors the
// identity claims of the caller's access token.
type MeResponse struct {
	SubjectID   string                  `json:"subjectId"`
	Email       string                  `json:"email"`
	RoleID      string                  `json:"roleId"`
	RoleType    token.RoleType          `json:"roleType"`
	LoginFrom   token.LoginFrom         `json:"loginFrom"`
	LoginAt     int64                   `json:"loginAt"`
	Permissions []token.PermissionGrant `json:"permissions"`
}
