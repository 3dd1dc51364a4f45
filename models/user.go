package models

import "time"

// User represents an account entity used for authentication, authorization
// and credential recovery. It mirrors a single row of the "users" table.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique login identifier used during authentication.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialised and never compared outside the service layer.
	PasswordHash string `json:"-"`

	// FirstName and LastName are display attributes returned by the
	// recovery verification endpoints so the caller can confirm the
	// account before completing a reset.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email is the contact address used by the OTP recovery flow.
	// Stored and compared case-insensitively.
	Email string `json:"email"`

	// Role determines which routes this account may reach.
	Role Role `json:"userType"`

	// IsActive gates every authenticated request: the token service
	// rejects tokens of deactivated accounts even when the token itself
	// is still valid.
	IsActive bool `json:"isActive"`

	// IsVerified records whether an admin has confirmed the account's
	// identity documents. Public self-registrations are auto-verified.
	IsVerified bool `json:"isVerified"`

	// LoginAttempts counts consecutive failed credential checks.
	// Mutated only by the lockout tracker and by a successful reset.
	LoginAttempts int `json:"-"`

	// LockedUntil, when set and in the future, causes every credential
	// check for this account to fail regardless of password correctness.
	LockedUntil *time.Time `json:"-"`

	// PasswordResetToken and PasswordResetExpiry form the link-based
	// recovery artifact. An expired token is treated as absent.
	PasswordResetToken  *string    `json:"-"`
	PasswordResetExpiry *time.Time `json:"-"`

	// PasswordResetOTP and PasswordResetOTPExpiry form the code-based
	// recovery artifact. Its lifecycle is independent from the link token;
	// both may coexist.
	PasswordResetOTP       *string    `json:"-"`
	PasswordResetOTPExpiry *time.Time `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// AuthUser is the authenticated identity carried in the request context
// after the bearer token has been verified. It is a trimmed projection of
// User containing nothing sensitive.
type AuthUser struct {
	UserID    int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"userType"`
	IsActive  bool   `json:"isActive"`
}

// AuthView returns the context-safe projection of the user.
func (u User) AuthView() AuthUser {
	return AuthUser{
		UserID:    u.UserID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

// RecoveryView is the minimal identity confirmation returned by the
// verify-reset-token and verify-otp endpoints.
type RecoveryView struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RecoveryView returns the identity-confirmation projection of the user.
func (u User) RecoveryView() RecoveryView {
	return RecoveryView{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
