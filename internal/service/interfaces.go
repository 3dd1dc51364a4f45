package service

import (
	"context"
	"time"

	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService owns credential verification, account registration and the
// bearer-token lifecycle.
type AuthService interface {
	// Login verifies the username/password pair, enforces the lockout
	// policy, and on success resets the failure counter and issues a token.
	Login(ctx context.Context, username string, password string) (models.User, models.Token, error)

	// Register creates a new account. PUBLIC accounts are active
	// immediately; official roles start inactive pending admin approval.
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)

	// CreateToken issues a signed bearer token for the given user.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)

	// Authenticate verifies a bearer token string and returns the current
	// identity of its owner, re-checked against the store.
	Authenticate(ctx context.Context, tokenString string) (models.AuthUser, error)
}

// RecoveryService owns the self-service credential recovery flows.
type RecoveryService interface {
	// RequestPasswordReset provisions recovery artifacts and mails them to
	// the account owner. The outcome is identical whether or not the
	// username exists.
	RequestPasswordReset(ctx context.Context, username string) error

	// VerifyResetToken checks a link token without consuming it.
	VerifyResetToken(ctx context.Context, token string) (models.RecoveryView, error)

	// ResetPassword consumes a live link token and installs a new password.
	ResetPassword(ctx context.Context, token string, newPassword string) error

	// VerifyOTP checks an emailed recovery code without consuming it.
	VerifyOTP(ctx context.Context, email string, code string) (models.RecoveryView, error)
}

// AdminService owns the administrative account-management operations.
type AdminService interface {
	// GenerateResetToken provisions a long-lived reset token for the target
	// account and hands it back to the administrator.
	GenerateResetToken(ctx context.Context, userID int64) (string, time.Time, models.RecoveryView, error)

	// SetPassword overwrites the target account's password directly.
	SetPassword(ctx context.Context, userID int64, newPassword string) error

	ListUsers(ctx context.Context, filter store.UserFilter) ([]models.User, error)
	VerifyUser(ctx context.Context, userID int64) (models.User, error)
	ToggleUserStatus(ctx context.Context, userID int64) (models.User, error)
}

// Mailer delivers recovery artifacts to account owners. Implementations must
// be safe for concurrent use; delivery failures are logged by callers and
// never surfaced to API clients.
type Mailer interface {
	SendResetLink(ctx context.Context, email string, firstName string, token string) error
	SendResetOTP(ctx context.Context, email string, firstName string, otp string) error
}
