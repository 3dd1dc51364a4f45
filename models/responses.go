package models

import "time"

// MessageResponse is the generic JSON envelope for endpoints that only
// report an outcome. Every failure path also uses this shape so clients can
// branch on the status code and show the message verbatim.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by a successful POST /api/auth/login.
type LoginResponse struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

// RegisterResponse is returned by a successful POST /api/auth/register.
// RequiresApproval signals that the account was created inactive and waits
// for an admin to verify it.
type RegisterResponse struct {
	Message             string `json:"message"`
	UserID              int64  `json:"userId"`
	RequiresApproval    bool   `json:"requiresApproval"`
	CanLoginImmediately bool   `json:"canLoginImmediately"`
}

// RecoveryVerifyResponse is returned by the verify-reset-token and
// verify-otp endpoints when the supplied artifact is live.
type RecoveryVerifyResponse struct {
	Valid bool         `json:"valid"`
	User  RecoveryView `json:"user"`
}

// AdminResetTokenResponse is returned by the admin generate-token action.
// Unlike the self-service flow, the token is handed to the administrator
// directly instead of being mailed to the account owner.
type AdminResetTokenResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      RecoveryView `json:"user"`
}

// UserListResponse is returned by GET /api/admin/users.
type UserListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
