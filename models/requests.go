package models

// Request bodies accepted by the authentication and recovery endpoints.
// Field names follow the JSON wire format expected by the web client.

// LoginRequest carries the credentials for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the account details for POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	UserType  Role   `json:"userType"`
}

// RequestResetRequest carries the account selector for
// POST /api/auth/request-reset.
type RequestResetRequest struct {
	Username string `json:"username"`
}

// VerifyResetTokenRequest carries the link token for
// POST /api/auth/verify-reset-token.
type VerifyResetTokenRequest struct {
	Token string `json:"token"`
}

// ResetPasswordRequest carries the link token and replacement password for
// POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// VerifyOTPRequest carries the email/code pair for POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// AdminResetRequest carries an admin-initiated recovery action for
// POST /api/admin/reset-password. Action is either "generate-token" or
// "set-password"; NewPassword is read only for the latter.
type AdminResetRequest struct {
	UserID      int64  `json:"userId"`
	Action      string `json:"action"`
	NewPassword string `json:"newPassword,omitempty"`
}

// AdminUserActionRequest targets a single account for the admin
// verify/toggle-status endpoints.
type AdminUserActionRequest struct {
	UserID int64 `json:"userId"`
}
