package service

import "errors"

// Sentinel errors returned by the service layer. The HTTP layer maps them to
// status codes with a single errors.Is lookup table; no caller should ever
// inspect error strings.
var (
	// ErrInvalidDataProvided is returned when a request is structurally
	// incomplete (empty username, missing email, unknown role and so on).
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned for a wrong password and for an
	// unknown username alike, so login failures never reveal whether an
	// account exists.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountLocked is returned while a lockout window is in effect.
	// The lock is not extended by further attempts.
	ErrAccountLocked = errors.New("account is temporarily locked")

	// ErrAccountNotApproved is returned when credentials are correct but the
	// account is still waiting for admin approval.
	ErrAccountNotApproved = errors.New("account is pending approval")

	// ErrSigningKeyMissing is returned when token issuance is attempted with
	// an empty signing secret. Issuance fails closed; there is no fallback key.
	ErrSigningKeyMissing = errors.New("token signing key is not configured")

	// ErrTokenCreationFailed wraps low-level JWT signing failures.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpired marks an authentication failure caused specifically
	// by token expiry. It is used for diagnostics only: callers receive
	// ErrTokenIsExpiredOrInvalid so responses stay uniform.
	ErrTokenIsExpired = errors.New("token is expired")

	// ErrTokenIsExpiredOrInvalid is the uniform authentication failure for
	// malformed, forged, expired and revoked-account tokens.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrPasswordTooShort is returned when a new password is shorter than
	// eight characters.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrResetTokenInvalid is returned for unknown, expired and already
	// consumed reset tokens alike, so callers cannot probe token state.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

	// ErrOTPFormat is returned when a recovery code is not exactly six
	// digits. The store is never consulted in that case.
	ErrOTPFormat = errors.New("recovery code must be 6 digits")

	// ErrOTPExpired is returned when the code matches but its validity
	// window has passed.
	ErrOTPExpired = errors.New("recovery code is expired")

	// ErrOTPMismatch is returned when no account matches the email/code pair.
	ErrOTPMismatch = errors.New("recovery code is incorrect")
)
